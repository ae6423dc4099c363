package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type itemStatRow struct {
	Subject      *string
	Difficulty   int
	Status       string
	NeedsReview  bool
	CollectionID *uuid.UUID
}

// GetStats aggregates the caller's items. Subjects and difficulties always
// appear with zero counts; collections are limited to active ones.
func (s *AnalyticsService) GetStats(ctx context.Context, userID uuid.UUID) (*dto.StatsReport, error) {
	db := s.db.WithContext(ctx)

	var rows []itemStatRow
	if err := db.Model(&models.Item{}).Scopes(session.ForAuthor(userID)).
		Select("subject, difficulty, status, needs_review, collection_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load item stats: %w", err)
	}

	var cols []models.Collection
	if err := db.Scopes(session.ForUser(userID), session.ActiveOnly).Find(&cols).Error; err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	report := &dto.StatsReport{
		BySubject:    make(map[string]dto.SubjectStats, len(models.Subjects)),
		ByDifficulty: make(map[string]int, models.MaxDifficulty),
		ByCollection: make(map[string]dto.CollectionStats, len(cols)),
	}
	for _, subj := range models.Subjects {
		report.BySubject[subj.Name] = dto.SubjectStats{}
	}
	for d := models.MinDifficulty; d <= models.MaxDifficulty; d++ {
		report.ByDifficulty[strconv.Itoa(d)] = 0
	}
	for _, c := range cols {
		report.ByCollection[c.ID.String()] = dto.CollectionStats{Name: c.Name}
	}

	for _, r := range rows {
		answered := r.Status == models.StatusAnswered || r.Status == models.StatusMastered
		mastered := r.Status == models.StatusMastered

		report.Total++
		if answered {
			report.Answered++
		}
		if mastered {
			report.Mastered++
		}
		if r.NeedsReview {
			report.NeedsReview++
		}

		if r.Subject != nil {
			if st, ok := report.BySubject[*r.Subject]; ok {
				st.Total++
				st.Answered += boolToInt(answered)
				st.Mastered += boolToInt(mastered)
				report.BySubject[*r.Subject] = st
			}
		}

		key := strconv.Itoa(r.Difficulty)
		if _, ok := report.ByDifficulty[key]; ok {
			report.ByDifficulty[key]++
		}

		if r.CollectionID != nil {
			key := r.CollectionID.String()
			if st, ok := report.ByCollection[key]; ok {
				st.Total++
				st.Answered += boolToInt(answered)
				st.Mastered += boolToInt(mastered)
				report.ByCollection[key] = st
			}
		}
	}
	return report, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
