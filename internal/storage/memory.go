package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore is an in-process ObjectStore used in development when no
// Supabase project is configured, and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailDelete makes Delete return an error for the listed ids.
	FailDelete map[string]bool
	FailUpload bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), FailDelete: make(map[string]bool)}
}

func (m *MemoryStore) Upload(_ context.Context, key string, data []byte, _ string) (*UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpload {
		return nil, ErrUpload
	}
	m.objects[key] = append([]byte(nil), data...)
	return &UploadResult{URL: "memory://" + key, PublicID: key}, nil
}

func (m *MemoryStore) Delete(_ context.Context, publicID string) (DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete[publicID] {
		return 0, errors.New("object store unavailable")
	}
	if _, ok := m.objects[publicID]; !ok {
		return DeleteNotFound, nil
	}
	delete(m.objects, publicID)
	return DeleteOK, nil
}

// Put seeds an object without going through Upload.
func (m *MemoryStore) Put(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = nil
}

func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
