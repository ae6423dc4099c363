package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewItemService(db *gorm.DB, store storage.ObjectStore) *ItemService {
	return &ItemService{db: db, store: store}
}

func (s *ItemService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateItemRequest) (*models.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err.Error())
	}

	item := models.Item{
		ID:          uuid.New(),
		AuthorID:    userID,
		Title:       req.Title,
		Difficulty:  models.DefaultDifficulty,
		Status:      models.StatusUnanswered,
		Images:      datatypes.JSONSlice[models.ItemImage](dto.ToImages(req.Images)),
		ContentText: req.ContentText,
		Tags:        []models.Tag{},
	}
	if req.Difficulty != nil {
		item.Difficulty = *req.Difficulty
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.NeedsReview != nil {
		item.NeedsReview = *req.NeedsReview
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := placeItem(tx, &item, req.CollectionID, req.Subject); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		if err := promotePendingUploads(tx, userID, item.Images); err != nil {
			return err
		}
		if len(req.Tags) > 0 {
			if _, err := replaceItemTags(tx, &item, req.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) Get(ctx context.Context, itemID, userID uuid.UUID) (*models.Item, error) {
	return loadOwnedItem(s.db.WithContext(ctx).Preload("Tags"), itemID, userID)
}

// List returns one page of the caller's items. A collection filter takes
// precedence over the subject filter.
func (s *ItemService) List(ctx context.Context, userID uuid.UUID, q dto.ListItemsQuery) (*dto.ItemListResponse, error) {
	q.Normalize()

	query := s.db.WithContext(ctx).Model(&models.Item{}).Scopes(session.ForAuthor(userID))
	if q.CollectionID != "" {
		colID, err := uuid.Parse(q.CollectionID)
		if err != nil {
			return nil, validation("invalid collection_id")
		}
		query = query.Where("collection_id = ?", colID)
	} else if q.Subject != "" {
		query = query.Where("subject = ?", q.Subject)
	}
	if q.Difficulty != 0 {
		query = query.Where("difficulty = ?", q.Difficulty)
	}
	if q.Status != "" {
		if !models.IsValidStatus(q.Status) {
			return nil, validation("invalid status: " + q.Status)
		}
		query = query.Where("status = ?", q.Status)
	}
	if q.NeedsReview != nil {
		query = query.Where("needs_review = ?", *q.NeedsReview)
	}
	if tag := strings.TrimSpace(q.Tag); tag != "" {
		query = query.Where("id IN (?)", s.db.WithContext(ctx).Table("item_tags").
			Select("item_tags.item_id").
			Joins("JOIN tags ON tags.id = item_tags.tag_id").
			Where("tags.user_id = ? AND lower(tags.name) = lower(?)", userID, tag))
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	items := []models.Item{}
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortBy}, Desc: q.Direction == "desc"}).
		Order("id ASC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Preload("Tags").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return &dto.ItemListResponse{
		Items:       items,
		Total:       total,
		Pages:       int(math.Ceil(float64(total) / float64(q.PerPage))),
		CurrentPage: q.Page,
	}, nil
}

func (s *ItemService) Update(ctx context.Context, itemID, userID uuid.UUID, req *dto.UpdateItemRequest) (*models.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err.Error())
	}

	var item *models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = loadOwnedItem(tx.Preload("Tags"), itemID, userID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			item.Title = req.Title
		}
		if req.Difficulty != nil {
			item.Difficulty = *req.Difficulty
		}
		if req.Status != nil {
			item.Status = *req.Status
		}
		if req.NeedsReview != nil {
			item.NeedsReview = *req.NeedsReview
		}
		if req.ContentText != nil {
			item.ContentText = req.ContentText
		}
		switch {
		case req.CollectionID.Clears():
			// Detaching keeps the subject unless one is given explicitly.
			item.CollectionID = nil
			if req.Subject != nil {
				item.Subject = nonEmpty(*req.Subject)
			}
		case req.CollectionID.Value != nil || req.Subject != nil:
			if err := placeItem(tx, item, req.CollectionID.Value, req.Subject); err != nil {
				return err
			}
		}
		if req.Images != nil {
			item.Images = datatypes.JSONSlice[models.ItemImage](dto.ToImages(*req.Images))
			if err := promotePendingUploads(tx, userID, item.Images); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if req.Tags != nil {
			if _, err := replaceItemTags(tx, item, *req.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item's images from the object store first. If that
// fails the item is left untouched so the call can be retried.
func (s *ItemService) Delete(ctx context.Context, itemID, userID uuid.UUID) error {
	db := s.db.WithContext(ctx)
	item, err := loadOwnedItem(db, itemID, userID)
	if err != nil {
		return err
	}

	for _, img := range item.Images {
		if img.PublicID == "" {
			continue
		}
		res, err := s.store.Delete(ctx, img.PublicID)
		if err != nil {
			slog.Error("image delete failed, keeping item", "item_id", item.ID.String(), "public_id", img.PublicID, "error", err)
			return fmt.Errorf("delete image %s: %w", img.PublicID, err)
		}
		if res == storage.DeleteNotFound {
			slog.Info("image already gone", "item_id", item.ID.String(), "public_id", img.PublicID)
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.ItemTag{}).Error; err != nil {
			return fmt.Errorf("delete item tags: %w", err)
		}
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("delete answers: %w", err)
		}
		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
}

// RotateImage sets the display rotation of one image.
func (s *ItemService) RotateImage(ctx context.Context, itemID, userID uuid.UUID, index, rotation int) (*models.Item, error) {
	if !models.IsValidRotation(rotation) {
		return nil, validation("rotation must be one of 0, 90, 180, 270")
	}
	var item *models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = loadOwnedItem(tx.Preload("Tags"), itemID, userID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(item.Images) {
			return validation(fmt.Sprintf("image_index %d out of range", index))
		}
		images := make(datatypes.JSONSlice[models.ItemImage], len(item.Images))
		copy(images, item.Images)
		images[index].Rotation = rotation
		item.Images = images
		return tx.Model(item).Update("images", images).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// placeItem files the item under a collection and keeps the legacy subject
// column in sync. A SUBJECT collection named after a known subject sets the
// subject; a bare subject attaches the caller's active collection of that
// name when one exists.
func placeItem(tx *gorm.DB, item *models.Item, collectionID *uuid.UUID, subject *string) error {
	if collectionID != nil {
		col, err := loadOwnedCollection(tx, *collectionID, item.AuthorID)
		if err != nil {
			return err
		}
		if col.IsDeleted {
			return validation("cannot add items to a collection in the trash")
		}
		item.CollectionID = &col.ID
		if col.Type == models.CollectionTypeSubject && models.IsSubject(col.Name) {
			name := col.Name
			item.Subject = &name
		} else if subject != nil {
			item.Subject = nonEmpty(*subject)
		}
		return nil
	}

	if subject == nil {
		return nil
	}
	item.Subject = nonEmpty(*subject)
	if item.Subject == nil {
		return nil
	}

	if item.CollectionID != nil {
		var current models.Collection
		err := tx.First(&current, "id = ?", *item.CollectionID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load current collection: %w", err)
		}
		if err == nil && current.Type != models.CollectionTypeSubject {
			return nil
		}
	}

	var subjectCol models.Collection
	err := tx.Scopes(session.ForUser(item.AuthorID), session.ActiveOnly).
		Where("type = ? AND name = ?", models.CollectionTypeSubject, *item.Subject).
		First(&subjectCol).Error
	if err == nil {
		item.CollectionID = &subjectCol.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup subject collection: %w", err)
	}
	return nil
}

// promotePendingUploads drops the pending rows of images now attached to an
// item so the reaper leaves them alone.
func promotePendingUploads(tx *gorm.DB, userID uuid.UUID, images []models.ItemImage) error {
	ids := make([]string, 0, len(images))
	for _, img := range images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("user_id = ? AND public_id IN ?", userID, ids).Delete(&models.PendingUpload{}).Error; err != nil {
		return fmt.Errorf("promote pending uploads: %w", err)
	}
	return nil
}

func nonEmpty(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
