package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tagResolveAttempts bounds the lookup/insert loop when concurrent writers
// keep racing on the same name.
const tagResolveAttempts = 3

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ResolveOrCreate returns the caller's tag matching name case-insensitively,
// creating it with the given casing when none exists.
func (s *TagService) ResolveOrCreate(ctx context.Context, userID uuid.UUID, name string) (*models.Tag, error) {
	return resolveOrCreateTag(s.db.WithContext(ctx), userID, name)
}

// ReplaceTags swaps the item's tag set for the tags resolved from names.
// Tags that end up unreferenced are kept.
func (s *TagService) ReplaceTags(ctx context.Context, itemID, userID uuid.UUID, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := loadOwnedItem(tx, itemID, userID)
		if err != nil {
			return err
		}
		tags, err = replaceItemTags(tx, item, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListTags returns the caller's tags ordered by name, optionally filtered by
// a case-insensitive substring.
func (s *TagService) ListTags(ctx context.Context, userID uuid.UUID, search string) ([]models.Tag, error) {
	q := s.db.WithContext(ctx).Scopes(session.ForUser(userID))
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	tags := []models.Tag{}
	if err := q.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func normalizeTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validation("tag name must not be empty")
	}
	if len([]rune(name)) > models.MaxTagNameLength {
		return "", validation(fmt.Sprintf("tag name %q exceeds %d characters", name, models.MaxTagNameLength))
	}
	return name, nil
}

// resolveOrCreateTag relies on idx_tags_user_name_lower: an insert that loses
// a race does nothing, and the following lookup finds the winner's row.
func resolveOrCreateTag(tx *gorm.DB, userID uuid.UUID, name string) (*models.Tag, error) {
	name, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < tagResolveAttempts; attempt++ {
		var tag models.Tag
		err := tx.Where("user_id = ? AND lower(name) = lower(?)", userID, name).First(&tag).Error
		if err == nil {
			return &tag, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup tag: %w", err)
		}

		tag = models.Tag{ID: uuid.New(), UserID: userID, Name: name}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				continue
			}
			return nil, fmt.Errorf("create tag: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			return &tag, nil
		}
	}
	return nil, fmt.Errorf("resolve tag %q: gave up after %d attempts", name, tagResolveAttempts)
}

func replaceItemTags(tx *gorm.DB, item *models.Item, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[uuid.UUID]bool, len(names))
	for _, name := range names {
		tag, err := resolveOrCreateTag(tx, item.AuthorID, name)
		if err != nil {
			return nil, err
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		tags = append(tags, *tag)
	}

	if err := tx.Where("item_id = ?", item.ID).Delete(&models.ItemTag{}).Error; err != nil {
		return nil, fmt.Errorf("clear item tags: %w", err)
	}
	if len(tags) > 0 {
		links := make([]models.ItemTag, 0, len(tags))
		for _, t := range tags {
			links = append(links, models.ItemTag{ItemID: item.ID, TagID: t.ID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return nil, fmt.Errorf("link item tags: %w", err)
		}
	}
	item.Tags = tags
	return tags, nil
}
