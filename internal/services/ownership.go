package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// loadOwnedItem fetches an item and checks that userID authored it.
func loadOwnedItem(tx *gorm.DB, itemID, userID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item.AuthorID != userID {
		return nil, ErrNotOwner
	}
	return &item, nil
}

func loadOwnedCollection(tx *gorm.DB, collectionID, userID uuid.UUID) (*models.Collection, error) {
	var col models.Collection
	if err := tx.First(&col, "id = ?", collectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("load collection: %w", err)
	}
	if col.UserID != userID {
		return nil, ErrNotOwner
	}
	return &col, nil
}
