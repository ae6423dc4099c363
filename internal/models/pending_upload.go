package models

import (
	"time"

	"github.com/google/uuid"
)

// PendingUpload tracks an image stored in the object store that is not yet
// attached to any item.
type PendingUpload struct {
	PublicID  string    `gorm:"size:255;primaryKey" json:"public_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	URL       string    `gorm:"size:1000" json:"url"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
