package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reapBatchSize caps how many expired uploads one reaper pass handles.
const reapBatchSize = 100

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

type UploadService struct {
	db       *gorm.DB
	store    storage.ObjectStore
	folder   string
	maxBytes int64
	ttl      time.Duration
}

func NewUploadService(db *gorm.DB, store storage.ObjectStore, cfg *config.Config) *UploadService {
	return &UploadService{
		db:       db,
		store:    store,
		folder:   cfg.StorageFolder,
		maxBytes: cfg.UploadMaxBytes,
		ttl:      cfg.PendingUploadTTL,
	}
}

// Upload stores an image and records it as pending until an item claims it.
// Expired pending uploads are reaped afterwards; reaper errors are logged only.
func (s *UploadService) Upload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*models.PendingUpload, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, validation("invalid file type, allowed: png, jpg, jpeg, webp")
	}
	if len(data) == 0 {
		return nil, validation("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, validation(fmt.Sprintf("file too large (max %d bytes)", s.maxBytes))
	}

	key := storage.ObjectKey(s.folder, userID, filename)
	res, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		slog.Error("image upload failed", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	pending := models.PendingUpload{PublicID: res.PublicID, UserID: userID, URL: res.URL}
	if err := s.db.WithContext(ctx).Create(&pending).Error; err != nil {
		if _, delErr := s.store.Delete(ctx, res.PublicID); delErr != nil {
			slog.Error("orphaned upload after failed insert", "public_id", res.PublicID, "error", delErr)
		}
		return nil, fmt.Errorf("record pending upload: %w", err)
	}

	if _, _, err := s.ReapExpired(ctx, time.Now()); err != nil {
		slog.Warn("opportunistic reap failed", "error", err)
	}
	return &pending, nil
}

// DeleteImage removes an image the caller owns, either through a pending
// upload or through one of their items. The pending row is dropped only
// after the object store confirms the object is gone.
func (s *UploadService) DeleteImage(ctx context.Context, userID uuid.UUID, publicID string) error {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return validation("public_id is required")
	}

	db := s.db.WithContext(ctx)
	owned, err := s.ownsImage(db, userID, publicID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrImageNotOwned
	}

	res, err := s.store.Delete(ctx, publicID)
	if err != nil {
		slog.Error("image delete failed", "user_id", userID.String(), "public_id", publicID, "error", err)
		return fmt.Errorf("delete image: %w", err)
	}
	slog.Info("image deleted", "public_id", publicID, "result", res.String())

	if err := db.Where("public_id = ? AND user_id = ?", publicID, userID).Delete(&models.PendingUpload{}).Error; err != nil {
		return fmt.Errorf("delete pending upload: %w", err)
	}
	return nil
}

func (s *UploadService) ownsImage(db *gorm.DB, userID uuid.UUID, publicID string) (bool, error) {
	var pending models.PendingUpload
	err := db.Where("public_id = ? AND user_id = ?", publicID, userID).First(&pending).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup pending upload: %w", err)
	}

	var items []models.Item
	if err := db.Select("id", "images").Scopes(session.ForAuthor(userID)).Find(&items).Error; err != nil {
		return false, fmt.Errorf("scan item images: %w", err)
	}
	for _, it := range items {
		for _, img := range it.Images {
			if img.PublicID == publicID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ReapExpired deletes pending uploads older than the TTL. The object store
// delete happens first; the row is removed only when it reports ok or not
// found, so a failed run leaves the row for the next one. Safe to run from
// several workers at once.
func (s *UploadService) ReapExpired(ctx context.Context, now time.Time) (reaped, failed int, err error) {
	cutoff := now.Add(-s.ttl)
	db := s.db.WithContext(ctx)

	var expired []models.PendingUpload
	if err := db.Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(reapBatchSize).
		Find(&expired).Error; err != nil {
		return 0, 0, fmt.Errorf("list expired uploads: %w", err)
	}

	for _, p := range expired {
		if _, err := s.store.Delete(ctx, p.PublicID); err != nil {
			slog.Error("reaper: object delete failed", "public_id", p.PublicID, "error", err)
			failed++
			continue
		}
		res := db.Where("public_id = ? AND created_at < ?", p.PublicID, cutoff).Delete(&models.PendingUpload{})
		if res.Error != nil {
			slog.Error("reaper: row delete failed", "public_id", p.PublicID, "error", res.Error)
			failed++
			continue
		}
		reaped += int(res.RowsAffected)
	}

	if reaped > 0 || failed > 0 {
		slog.Info("reaper pass completed", "reaped", reaped, "failed", failed)
	}
	return reaped, failed, nil
}

// StartReaper runs ReapExpired on every tick until done is closed.
func (s *UploadService) StartReaper(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				if _, _, err := s.ReapExpired(ctx, time.Now()); err != nil {
					slog.Error("scheduled reap failed", "error", err)
				}
				cancel()
			case <-done:
				return
			}
		}
	}()
}
