package session

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForUser returns a GORM scope that filters rows by their user_id column.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return ForOwner("user_id", userID)
}

// ForAuthor filters items by author_id.
func ForAuthor(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return ForOwner("author_id", userID)
}

// ForOwner filters by an arbitrary ownership column.
func ForOwner(column string, userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", userID)
	}
}

// ActiveOnly excludes soft-deleted collections.
func ActiveOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}
