package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func SeedUser(tb testing.TB, db *gorm.DB, username string) *models.User {
	tb.Helper()
	hash := "x"
	u := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: &hash,
		Role:         models.RoleStudent,
		AuthProvider: models.AuthProviderLocal,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCollection(tb testing.TB, db *gorm.DB, userID uuid.UUID, name, typ string) *models.Collection {
	tb.Helper()
	c := &models.Collection{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Type:   typ,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed collection: %v", err)
	}
	return c
}

// ItemOpts overrides fields of a seeded item. Zero values keep defaults.
type ItemOpts struct {
	Difficulty   int
	Status       string
	NeedsReview  bool
	Subject      string
	CollectionID *uuid.UUID
	Images       []models.ItemImage
	CreatedAt    time.Time
}

func SeedItem(tb testing.TB, db *gorm.DB, authorID uuid.UUID, opts ItemOpts) *models.Item {
	tb.Helper()
	it := &models.Item{
		ID:           uuid.New(),
		AuthorID:     authorID,
		CollectionID: opts.CollectionID,
		Difficulty:   models.DefaultDifficulty,
		Status:       models.StatusUnanswered,
		NeedsReview:  opts.NeedsReview,
		Images:       datatypes.JSONSlice[models.ItemImage]{},
		CreatedAt:    opts.CreatedAt,
	}
	if opts.Difficulty != 0 {
		it.Difficulty = opts.Difficulty
	}
	if opts.Status != "" {
		it.Status = opts.Status
	}
	if opts.Subject != "" {
		subject := opts.Subject
		it.Subject = &subject
	}
	if opts.Images != nil {
		it.Images = opts.Images
	}
	if err := db.Omit(clause.Associations).Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}

func SeedPendingUpload(tb testing.TB, db *gorm.DB, userID uuid.UUID, publicID string, createdAt time.Time) *models.PendingUpload {
	tb.Helper()
	p := &models.PendingUpload{
		PublicID:  publicID,
		UserID:    userID,
		URL:       "memory://" + publicID,
		CreatedAt: createdAt,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed pending upload: %v", err)
	}
	return p
}
