package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore keeps images in a Supabase Storage bucket. The public id of
// an object is its path inside the bucket.
type SupabaseStore struct {
	client  *storage_go.Client
	baseURL string
	bucket  string
}

func NewSupabaseStore(baseURL, key, bucket string) *SupabaseStore {
	baseURL = strings.TrimRight(baseURL, "/")
	return &SupabaseStore{
		client:  storage_go.NewClient(baseURL+"/storage/v1", key, nil),
		baseURL: baseURL,
		bucket:  bucket,
	}
}

func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := storage_go.FileOptions{ContentType: &contentType}
	if _, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return &UploadResult{URL: s.PublicURL(key), PublicID: key}, nil
}

// Delete removes one object. Supabase answers a remove request for a
// missing path with an empty list, which maps to DeleteNotFound.
func (s *SupabaseStore) Delete(ctx context.Context, publicID string) (DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	removed, err := s.client.RemoveFile(s.bucket, []string{publicID})
	if err != nil {
		if isNotFound(err) {
			return DeleteNotFound, nil
		}
		return 0, fmt.Errorf("remove %s: %w", publicID, err)
	}
	if len(removed) == 0 {
		slog.Debug("object already gone", "public_id", publicID)
		return DeleteNotFound, nil
	}
	return DeleteOK, nil
}

func (s *SupabaseStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

// isNotFound matches the *StorageError storage-go builds for non-2xx replies.
// Supabase answers a missing object with
// {"statusCode":"404","error":"not_found","message":"Object not found"};
// storage-go decodes only "message", so Status is usually zero.
func isNotFound(err error) bool {
	var se *storage_go.StorageError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status == http.StatusNotFound || strings.Contains(strings.ToLower(se.Message), "not found")
}
