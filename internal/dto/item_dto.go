package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/google/uuid"
)

const (
	MaxImagesPerItem = 5
	MaxTitleLength   = 200
)

type ImageInput struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Rotation int    `json:"rotation"`
}

type CreateItemRequest struct {
	Title        *string      `json:"title"`
	Subject      *string      `json:"subject"`
	CollectionID *uuid.UUID   `json:"collection_id"`
	Difficulty   *int         `json:"difficulty"`
	Status       *string      `json:"status"`
	NeedsReview  *bool        `json:"needs_review"`
	Images       []ImageInput `json:"images"`
	ContentText  *string      `json:"content_text"`
	Tags         []string     `json:"tags"`
}

func (r *CreateItemRequest) Validate() error {
	var errs []error
	errs = append(errs, validateTitle(r.Title), validateSubject(r.Subject))
	errs = append(errs, validateDifficulty(r.Difficulty), validateStatus(r.Status))
	errs = append(errs, validateImages(r.Images))
	return errors.Join(errs...)
}

// UpdateItemRequest is a partial update: nil fields are left unchanged.
// OptionalID records whether a JSON field was present, so an explicit null
// can be told apart from an omitted field.
type OptionalID struct {
	Set   bool
	Value *uuid.UUID
}

// SomeID returns a present, non-null OptionalID.
func SomeID(id uuid.UUID) OptionalID {
	return OptionalID{Set: true, Value: &id}
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// Clears reports an explicit null.
func (o OptionalID) Clears() bool {
	return o.Set && o.Value == nil
}

type UpdateItemRequest struct {
	Title        *string       `json:"title"`
	Subject      *string       `json:"subject"`
	CollectionID OptionalID    `json:"collection_id"`
	Difficulty   *int          `json:"difficulty"`
	Status       *string       `json:"status"`
	NeedsReview  *bool         `json:"needs_review"`
	Images       *[]ImageInput `json:"images"`
	ContentText  *string       `json:"content_text"`
	Tags         *[]string     `json:"tags"`
}

func (r *UpdateItemRequest) Validate() error {
	var errs []error
	errs = append(errs, validateTitle(r.Title), validateSubject(r.Subject))
	errs = append(errs, validateDifficulty(r.Difficulty), validateStatus(r.Status))
	if r.Images != nil {
		errs = append(errs, validateImages(*r.Images))
	}
	return errors.Join(errs...)
}

type ListItemsQuery struct {
	CollectionID string `query:"collection_id"`
	Subject      string `query:"subject"`
	Difficulty   int    `query:"difficulty"`
	Status       string `query:"status"`
	Tag          string `query:"tag"`
	NeedsReview  *bool  `query:"needs_review"`
	SortBy       string `query:"sort_by"`
	Direction    string `query:"sort_direction"`
	Page         int    `query:"page"`
	PerPage      int    `query:"per_page"`
}

var sortableItemColumns = map[string]bool{"created_at": true, "difficulty": true, "updated_at": true}

// Normalize fills defaults and clamps paging. Unknown sort columns fall back
// to created_at.
func (q *ListItemsQuery) Normalize() {
	if !sortableItemColumns[q.SortBy] {
		q.SortBy = "created_at"
	}
	if q.Direction != "asc" {
		q.Direction = "desc"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
}

type ItemListResponse struct {
	Items       []models.Item `json:"items"`
	Total       int64         `json:"total"`
	Pages       int           `json:"pages"`
	CurrentPage int           `json:"current_page"`
}

type RotateImageRequest struct {
	ImageIndex int `json:"image_index"`
	Rotation   int `json:"rotation"`
}

type ReviewSessionQuery struct {
	Limit        int    `query:"limit"`
	Subject      string `query:"subject"`
	CollectionID string `query:"collection_id"`
}

func validateTitle(title *string) error {
	if title != nil && len([]rune(*title)) > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

func validateSubject(subject *string) error {
	if subject != nil && *subject != "" && !models.IsSubject(*subject) {
		return fmt.Errorf("invalid subject: %s", *subject)
	}
	return nil
}

func validateDifficulty(d *int) error {
	if d != nil && (*d < models.MinDifficulty || *d > models.MaxDifficulty) {
		return fmt.Errorf("difficulty must be between %d and %d", models.MinDifficulty, models.MaxDifficulty)
	}
	return nil
}

func validateStatus(s *string) error {
	if s != nil && !models.IsValidStatus(*s) {
		return fmt.Errorf("invalid status: %s", *s)
	}
	return nil
}

func validateImages(images []ImageInput) error {
	if len(images) > MaxImagesPerItem {
		return fmt.Errorf("at most %d images are allowed", MaxImagesPerItem)
	}
	for i, img := range images {
		if strings.TrimSpace(img.URL) == "" || strings.TrimSpace(img.PublicID) == "" {
			return fmt.Errorf("images[%d]: url and public_id are required", i)
		}
		if !models.IsValidRotation(img.Rotation) {
			return fmt.Errorf("images[%d]: rotation must be one of 0, 90, 180, 270", i)
		}
	}
	return nil
}

// ToImages converts request images into the stored representation. The
// result is never nil so the column is written as an empty JSON array.
func ToImages(in []ImageInput) []models.ItemImage {
	out := make([]models.ItemImage, 0, len(in))
	for _, img := range in {
		out = append(out, models.ItemImage{URL: img.URL, PublicID: img.PublicID, Rotation: img.Rotation})
	}
	return out
}
