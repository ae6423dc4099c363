package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CollectionTypeSubject = "SUBJECT"
	CollectionTypeCustom  = "CUSTOM"
)

// Collection is a named, soft-deletable group of items. Among a user's active
// collections the name is unique; the partial index uq_user_active_collection
// (created in database.Migrate) enforces it at the store.
type Collection struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Type      string     `gorm:"size:20;not null;default:'CUSTOM';check:chk_collections_type,type IN ('SUBJECT','CUSTOM')" json:"type"`
	Icon      *string    `gorm:"size:50" json:"icon"`
	Color     *string    `gorm:"size:20" json:"color"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subject describes one of the fixed exam subjects seeded as SUBJECT
// collections for every new account.
type Subject struct {
	Name  string
	Icon  string
	Color string
}

var Subjects = []Subject{
	{Name: "READING", Icon: "book", Color: "#f97316"},
	{Name: "WRITING", Icon: "pencil", Color: "#a855f7"},
	{Name: "MATHS", Icon: "calculator", Color: "#10b981"},
	{Name: "THINKING_SKILLS", Icon: "brain", Color: "#6366f1"},
}

func IsSubject(name string) bool {
	for _, s := range Subjects {
		if s.Name == name {
			return true
		}
	}
	return false
}
