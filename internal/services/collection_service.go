package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionService owns the collection lifecycle: active, trashed, and
// permanently deleted. Name uniqueness among active collections is enforced
// by uq_user_active_collection; the lookups here only produce nicer errors.
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

func (s *CollectionService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCollectionRequest) (*models.Collection, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err.Error())
	}
	col := models.Collection{
		ID:     uuid.New(),
		UserID: userID,
		Name:   req.Name,
		Type:   models.CollectionTypeCustom,
		Icon:   req.Icon,
		Color:  req.Color,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := activeNameTaken(tx, userID, col.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrCollectionNameTaken
		}
		if err := tx.Create(&col).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrCollectionNameTaken
			}
			return fmt.Errorf("create collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// List returns active collections, newest first.
func (s *CollectionService) List(ctx context.Context, userID uuid.UUID) ([]models.Collection, error) {
	cols := []models.Collection{}
	err := s.db.WithContext(ctx).Scopes(session.ForUser(userID), session.ActiveOnly).
		Order("created_at DESC").Find(&cols).Error
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}

// Trash returns soft-deleted collections, most recently deleted first.
func (s *CollectionService) Trash(ctx context.Context, userID uuid.UUID) ([]models.Collection, error) {
	cols := []models.Collection{}
	err := s.db.WithContext(ctx).Scopes(session.ForUser(userID)).
		Where("is_deleted = ?", true).
		Order("deleted_at DESC").Find(&cols).Error
	if err != nil {
		return nil, fmt.Errorf("list trash: %w", err)
	}
	return cols, nil
}

// Update applies a rename, restyle, or trash move in one transaction.
func (s *CollectionService) Update(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateCollectionRequest) (*models.Collection, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err.Error())
	}
	var col *models.Collection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		col, err = loadOwnedCollection(tx, id, userID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Name != nil && *req.Name != col.Name {
			updates["name"] = *req.Name
			col.Name = *req.Name
		}
		if req.Icon != nil {
			updates["icon"] = *req.Icon
			col.Icon = req.Icon
		}
		if req.Color != nil {
			updates["color"] = *req.Color
			col.Color = req.Color
		}
		restoring := false
		if req.IsDeleted != nil && *req.IsDeleted != col.IsDeleted {
			if *req.IsDeleted {
				now := time.Now().UTC()
				updates["is_deleted"], updates["deleted_at"] = true, now
				col.IsDeleted, col.DeletedAt = true, &now
			} else {
				restoring = true
				updates["is_deleted"], updates["deleted_at"] = false, nil
				col.IsDeleted, col.DeletedAt = false, nil
			}
		}
		if len(updates) == 0 {
			return nil
		}

		conflictErr := ErrCollectionNameTaken
		if restoring {
			conflictErr = ErrRestoreNameTaken
		}
		if !col.IsDeleted {
			taken, err := activeNameTaken(tx, userID, col.Name, col.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflictErr
			}
		}
		if err := tx.Model(&models.Collection{}).Where("id = ?", col.ID).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return conflictErr
			}
			return fmt.Errorf("update collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// SoftDelete moves a collection to the trash. Trashed collections are exempt
// from name uniqueness, so this never conflicts.
func (s *CollectionService) SoftDelete(ctx context.Context, id, userID uuid.UUID) (*models.Collection, error) {
	trashed := true
	return s.Update(ctx, id, userID, &dto.UpdateCollectionRequest{IsDeleted: &trashed})
}

// Restore takes a collection out of the trash. It fails with a conflict when
// an active collection has taken the name meanwhile, leaving both untouched.
// Restoring an active collection is a no-op.
func (s *CollectionService) Restore(ctx context.Context, id, userID uuid.UUID) (*models.Collection, error) {
	active := false
	return s.Update(ctx, id, userID, &dto.UpdateCollectionRequest{IsDeleted: &active})
}

// HardDelete permanently removes a trashed collection and every item filed
// under it. Images of those items stay in the object store.
func (s *CollectionService) HardDelete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := loadOwnedCollection(tx, id, userID)
		if err != nil {
			return err
		}
		if !col.IsDeleted {
			return ErrCollectionNotInTrash
		}

		itemIDs := func() *gorm.DB {
			return tx.Model(&models.Item{}).Select("id").Where("collection_id = ?", col.ID)
		}
		if err := tx.Where("item_id IN (?)", itemIDs()).Delete(&models.ItemTag{}).Error; err != nil {
			return fmt.Errorf("delete item tags: %w", err)
		}
		if err := tx.Where("item_id IN (?)", itemIDs()).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("delete answers: %w", err)
		}
		res := tx.Where("collection_id = ?", col.ID).Delete(&models.Item{})
		if res.Error != nil {
			return fmt.Errorf("delete items: %w", res.Error)
		}
		removed = res.RowsAffected
		if err := tx.Delete(col).Error; err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// seedSubjectCollections creates the fixed SUBJECT collections for a new
// account.
func seedSubjectCollections(tx *gorm.DB, userID uuid.UUID) error {
	cols := make([]models.Collection, 0, len(models.Subjects))
	for _, subj := range models.Subjects {
		icon, color := subj.Icon, subj.Color
		cols = append(cols, models.Collection{
			ID:     uuid.New(),
			UserID: userID,
			Name:   subj.Name,
			Type:   models.CollectionTypeSubject,
			Icon:   &icon,
			Color:  &color,
		})
	}
	if err := tx.Create(&cols).Error; err != nil {
		return fmt.Errorf("seed subject collections: %w", err)
	}
	return nil
}

func activeNameTaken(tx *gorm.DB, userID uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var other models.Collection
	err := tx.Scopes(session.ForUser(userID), session.ActiveOnly).
		Where("name = ? AND id <> ?", name, exclude).
		First(&other).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check collection name: %w", err)
}
