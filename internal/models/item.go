package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusUnanswered = "UNANSWERED"
	StatusAnswered   = "ANSWERED"
	StatusMastered   = "MASTERED"
)

const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultDifficulty = 3
)

func IsValidStatus(s string) bool {
	return s == StatusUnanswered || s == StatusAnswered || s == StatusMastered
}

// ItemImage is one entry of an item's ordered image list.
type ItemImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Rotation int    `json:"rotation"`
}

func IsValidRotation(r int) bool {
	return r == 0 || r == 90 || r == 180 || r == 270
}

// Item is a practice question. Status and NeedsReview are independent: the
// status tracks the last grading outcome, the flag marks the item for review.
type Item struct {
	ID           uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID     uuid.UUID                      `gorm:"type:uuid;not null;index" json:"author_id"`
	CollectionID *uuid.UUID                     `gorm:"type:uuid;index" json:"collection_id"`
	Collection   *Collection                    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Title        *string                        `gorm:"size:200" json:"title"`
	Subject      *string                        `gorm:"size:50;index" json:"subject"`
	Difficulty   int                            `gorm:"not null;default:3;check:chk_items_difficulty,difficulty >= 1 AND difficulty <= 5" json:"difficulty"`
	Status       string                         `gorm:"size:20;not null;default:'UNANSWERED';check:chk_items_status,status IN ('UNANSWERED','ANSWERED','MASTERED')" json:"status"`
	NeedsReview  bool                           `gorm:"not null;default:false;index" json:"needs_review"`
	Images       datatypes.JSONSlice[ItemImage] `gorm:"not null" json:"images"`
	ContentText  *string                        `gorm:"type:text" json:"content_text"`
	Attempts     int                            `gorm:"not null;default:0" json:"attempts"`
	SuccessRate  float64                        `gorm:"not null;default:0" json:"success_rate"`
	Tags         []Tag                          `gorm:"many2many:item_tags" json:"tags"`
	CreatedAt    time.Time                      `json:"created_at"`
	UpdatedAt    time.Time                      `json:"updated_at"`
}

// ItemTag is the join row between items and tags.
type ItemTag struct {
	ItemID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_item_tags_tag_item,priority:2"`
	TagID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_item_tags_tag_item,priority:1"`
}
