package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnswerService records attempts and drives the item learning state.
type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// Submit appends an answer, recomputes the item's attempts and success rate
// from the full answer history, and applies the last-answer-wins transition:
// correct means MASTERED without review, incorrect means ANSWERED with review.
func (s *AnswerService) Submit(ctx context.Context, itemID, userID uuid.UUID, req *dto.SubmitAnswerRequest) (*dto.AnswerResult, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err.Error())
	}
	isCorrect := *req.IsCorrect

	var result dto.AnswerResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := loadOwnedItem(tx.Clauses(clause.Locking{Strength: "UPDATE"}), itemID, userID)
		if err != nil {
			return err
		}

		answer := models.Answer{
			ID:              uuid.New(),
			ItemID:          item.ID,
			UserID:          userID,
			Content:         req.Content,
			IsCorrect:       isCorrect,
			DurationSeconds: req.DurationSeconds,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}

		attempts, rate, err := recomputeStats(tx, item.ID)
		if err != nil {
			return err
		}

		status, needsReview := models.StatusAnswered, true
		if isCorrect {
			status, needsReview = models.StatusMastered, false
		}

		if err := tx.Model(item).Updates(map[string]interface{}{
			"attempts":     attempts,
			"success_rate": rate,
			"status":       status,
			"needs_review": needsReview,
		}).Error; err != nil {
			return fmt.Errorf("update item state: %w", err)
		}

		result = dto.AnswerResult{
			Answer:      answer,
			Status:      status,
			NeedsReview: needsReview,
			Attempts:    attempts,
			SuccessRate: rate,
		}
		return nil
	})
	if err != nil {
		if !isClientError(err) {
			slog.Error("answer submission rolled back", "item_id", itemID.String(), "user_id", userID.String(), "error", err)
		}
		return nil, err
	}
	return &result, nil
}

// RecomputeStats rewrites attempts and success_rate from the answer history.
// Running it twice without new answers yields the same values.
func (s *AnswerService) RecomputeStats(ctx context.Context, itemID, userID uuid.UUID) (*models.Item, error) {
	var item *models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = loadOwnedItem(tx, itemID, userID)
		if err != nil {
			return err
		}
		attempts, rate, err := recomputeStats(tx, item.ID)
		if err != nil {
			return err
		}
		item.Attempts, item.SuccessRate = attempts, rate
		return tx.Model(item).Updates(map[string]interface{}{"attempts": attempts, "success_rate": rate}).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SetNeedsReview changes only the review flag. A nil value toggles it.
func (s *AnswerService) SetNeedsReview(ctx context.Context, itemID, userID uuid.UUID, value *bool) (*models.Item, error) {
	var item *models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = loadOwnedItem(tx.Clauses(clause.Locking{Strength: "UPDATE"}), itemID, userID)
		if err != nil {
			return err
		}
		next := !item.NeedsReview
		if value != nil {
			next = *value
		}
		item.NeedsReview = next
		return tx.Model(item).Update("needs_review", next).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SetStatus moves an item between the legal statuses without touching the
// review flag.
func (s *AnswerService) SetStatus(ctx context.Context, itemID, userID uuid.UUID, status string) (*models.Item, error) {
	if !models.IsValidStatus(status) {
		return nil, validation("invalid status: " + status)
	}
	var item *models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = loadOwnedItem(tx, itemID, userID)
		if err != nil {
			return err
		}
		item.Status = status
		return tx.Model(item).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// History lists the caller's answers for an item, newest first.
func (s *AnswerService) History(ctx context.Context, itemID, userID uuid.UUID) ([]models.Answer, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadOwnedItem(db, itemID, userID); err != nil {
		return nil, err
	}
	answers := []models.Answer{}
	if err := db.Where("item_id = ? AND user_id = ?", itemID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

func recomputeStats(tx *gorm.DB, itemID uuid.UUID) (int, float64, error) {
	var row struct {
		Total   int64
		Correct int64
	}
	err := tx.Model(&models.Answer{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("item_id = ?", itemID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("count answers: %w", err)
	}
	return int(row.Total), successRate(row.Correct, row.Total), nil
}

// successRate is the correct share as a percentage rounded to one decimal.
func successRate(correct, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
