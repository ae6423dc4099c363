package dto

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
)

type SubmitAnswerRequest struct {
	IsCorrect       *bool  `json:"is_correct"`
	Content         string `json:"content"`
	DurationSeconds int    `json:"duration_seconds"`
}

func (r *SubmitAnswerRequest) Validate() error {
	var errs []error
	if r.IsCorrect == nil {
		errs = append(errs, errors.New("is_correct is required"))
	}
	if r.DurationSeconds < 0 {
		errs = append(errs, errors.New("duration_seconds must not be negative"))
	}
	return errors.Join(errs...)
}

type AnswerResult struct {
	Answer      models.Answer `json:"answer"`
	Status      string        `json:"item_status"`
	NeedsReview bool          `json:"needs_review"`
	Attempts    int           `json:"attempts"`
	SuccessRate float64       `json:"success_rate"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetReviewRequest sets needs_review explicitly, or toggles it when the
// field is omitted.
type SetReviewRequest struct {
	NeedsReview *bool `json:"needs_review"`
}
