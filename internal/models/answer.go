package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer is an append-only attempt record.
type Answer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID          uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content         string    `gorm:"type:text" json:"content"`
	IsCorrect       bool      `gorm:"not null" json:"is_correct"`
	DurationSeconds int       `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}
