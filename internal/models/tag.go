package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxTagNameLength = 30

// Tag names are unique per user ignoring case (idx_tags_user_name_lower).
// Tags outlive the items that reference them.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}
