package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// DeleteResult is the outcome of removing an object. Both DeleteOK and
// DeleteNotFound count as success for callers that need idempotent deletes.
type DeleteResult int

const (
	DeleteOK DeleteResult = iota
	DeleteNotFound
)

func (r DeleteResult) String() string {
	switch r {
	case DeleteOK:
		return "ok"
	case DeleteNotFound:
		return "not_found"
	}
	return "unknown"
}

var ErrUpload = errors.New("object store upload failed")

type UploadResult struct {
	URL      string
	PublicID string
}

// ObjectStore is the external image store.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) (DeleteResult, error)
}

// ObjectKey builds "<folder>/<userID>/<uuid>-<slug>.<ext>" for an uploaded
// file name. The extension is lower-cased and kept out of the slug.
func ObjectKey(folder string, userID uuid.UUID, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}
	name := fmt.Sprintf("%s-%s", uuid.NewString(), base)
	if ext != "" {
		name += "." + ext
	}
	if folder == "" {
		return fmt.Sprintf("%s/%s", userID, name)
	}
	return fmt.Sprintf("%s/%s/%s", strings.Trim(folder, "/"), userID, name)
}
