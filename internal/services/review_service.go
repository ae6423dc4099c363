package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultReviewLimit = 10

// ReviewService picks items for review sessions and dashboard
// recommendations. It only reads.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type ReviewFilter struct {
	Limit        int
	Subject      string
	CollectionID *uuid.UUID
}

func (f ReviewFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultReviewLimit
	}
	return f.Limit
}

func (f ReviewFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Subject != "" {
		q = q.Where("subject = ?", f.Subject)
	}
	if f.CollectionID != nil {
		q = q.Where("collection_id = ?", *f.CollectionID)
	}
	return q
}

// GetReviewSession returns a uniform random sample of the caller's items
// flagged for review.
func (s *ReviewService) GetReviewSession(ctx context.Context, userID uuid.UUID, f ReviewFilter) ([]models.Item, error) {
	items := []models.Item{}
	err := f.apply(s.db.WithContext(ctx).Model(&models.Item{}).Scopes(session.ForAuthor(userID))).
		Where("needs_review = ?", true).
		Order("RANDOM()").
		Limit(f.limit()).
		Preload("Tags").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("select review session: %w", err)
	}
	return items, nil
}

// GetRecommendations lists flagged items first, then fills the remaining
// slots with unanswered ones. Both groups are ordered by difficulty, with
// creation time and id as tie-breakers so the result is deterministic.
func (s *ReviewService) GetRecommendations(ctx context.Context, userID uuid.UUID, f ReviewFilter) ([]models.Item, error) {
	limit := f.limit()
	base := func() *gorm.DB {
		return f.apply(s.db.WithContext(ctx).Model(&models.Item{}).Scopes(session.ForAuthor(userID))).
			Order("difficulty ASC").Order("created_at ASC").Order("id ASC").
			Preload("Tags")
	}

	flagged := []models.Item{}
	if err := base().Where("needs_review = ?", true).Limit(limit).Find(&flagged).Error; err != nil {
		return nil, fmt.Errorf("select flagged items: %w", err)
	}
	if len(flagged) >= limit {
		return flagged, nil
	}

	// An unanswered item can also carry the flag; it is already in flagged.
	unanswered := []models.Item{}
	if err := base().
		Where("status = ? AND needs_review = ?", models.StatusUnanswered, false).
		Limit(limit - len(flagged)).
		Find(&unanswered).Error; err != nil {
		return nil, fmt.Errorf("select unanswered items: %w", err)
	}
	return append(flagged, unanswered...), nil
}
