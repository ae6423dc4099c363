package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func answerReq(correct bool) *dto.SubmitAnswerRequest {
	return &dto.SubmitAnswerRequest{IsCorrect: &correct, Content: "42", DurationSeconds: 30}
}

func TestSubmitIncorrectThenCorrect(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "alice")
	item := testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Difficulty: 3})
	svc := NewAnswerService(db)

	res, err := svc.Submit(ctx, item.ID, user.ID, answerReq(false))
	if err != nil {
		t.Fatalf("submit incorrect: %v", err)
	}
	if res.Status != models.StatusAnswered || !res.NeedsReview || res.Attempts != 1 || res.SuccessRate != 0.0 {
		t.Fatalf("after incorrect got %+v", res)
	}

	res, err = svc.Submit(ctx, item.ID, user.ID, answerReq(true))
	if err != nil {
		t.Fatalf("submit correct: %v", err)
	}
	if res.Status != models.StatusMastered || res.NeedsReview || res.Attempts != 2 || res.SuccessRate != 50.0 {
		t.Fatalf("after correct got %+v", res)
	}

	var stored models.Item
	if err := db.First(&stored, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Status != models.StatusMastered || stored.NeedsReview || stored.Attempts != 2 || stored.SuccessRate != 50.0 {
		t.Fatalf("stored item = status %s review %v attempts %d rate %v",
			stored.Status, stored.NeedsReview, stored.Attempts, stored.SuccessRate)
	}

	var count int64
	db.Model(&models.Answer{}).Where("item_id = ?", item.ID).Count(&count)
	if count != 2 {
		t.Fatalf("answer rows = %d, want 2", count)
	}
}

func TestSubmitTransitionIgnoresPriorState(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "bob")
	svc := NewAnswerService(db)

	tests := []struct {
		name        string
		prior       string
		priorReview bool
		correct     bool
		wantStatus  string
		wantReview  bool
	}{
		{"mastered then wrong", models.StatusMastered, false, false, models.StatusAnswered, true},
		{"flagged then right", models.StatusAnswered, true, true, models.StatusMastered, false},
		{"unanswered flagged then wrong", models.StatusUnanswered, true, false, models.StatusAnswered, true},
		{"mastered then right", models.StatusMastered, false, true, models.StatusMastered, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Status: tt.prior, NeedsReview: tt.priorReview})
			res, err := svc.Submit(ctx, item.ID, user.ID, answerReq(tt.correct))
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if res.Status != tt.wantStatus || res.NeedsReview != tt.wantReview {
				t.Fatalf("got status %s review %v, want %s %v", res.Status, res.NeedsReview, tt.wantStatus, tt.wantReview)
			}
		})
	}
}

func TestSubmitOwnershipAndValidation(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner")
	other := testutil.SeedUser(t, db, "other")
	item := testutil.SeedItem(t, db, owner.ID, testutil.ItemOpts{})
	svc := NewAnswerService(db)

	if _, err := svc.Submit(ctx, item.ID, other.ID, answerReq(true)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign item err = %v, want forbidden", err)
	}
	if _, err := svc.Submit(ctx, uuid.New(), owner.ID, answerReq(true)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing item err = %v, want not found", err)
	}
	if _, err := svc.Submit(ctx, item.ID, owner.ID, &dto.SubmitAnswerRequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing is_correct err = %v, want validation", err)
	}

	var count int64
	db.Model(&models.Answer{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected submissions left %d answers", count)
	}
}

func TestRecomputeStatsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "carol")
	item := testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{})
	svc := NewAnswerService(db)

	for _, correct := range []bool{true, false, true} {
		if _, err := svc.Submit(ctx, item.ID, user.ID, answerReq(correct)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	first, err := svc.RecomputeStats(ctx, item.ID, user.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	second, err := svc.RecomputeStats(ctx, item.ID, user.ID)
	if err != nil {
		t.Fatalf("recompute again: %v", err)
	}
	if first.Attempts != 3 || first.SuccessRate != 66.7 {
		t.Fatalf("stats = %d / %v, want 3 / 66.7", first.Attempts, first.SuccessRate)
	}
	if first.Attempts != second.Attempts || first.SuccessRate != second.SuccessRate {
		t.Fatalf("recompute drifted: %d/%v then %d/%v", first.Attempts, first.SuccessRate, second.Attempts, second.SuccessRate)
	}
}

func TestReviewFlagAndStatusAreIndependent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "dave")
	item := testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Status: models.StatusMastered})
	svc := NewAnswerService(db)

	got, err := svc.SetNeedsReview(ctx, item.ID, user.ID, nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.NeedsReview || got.Status != models.StatusMastered {
		t.Fatalf("after toggle: review %v status %s", got.NeedsReview, got.Status)
	}

	off := false
	got, err = svc.SetNeedsReview(ctx, item.ID, user.ID, &off)
	if err != nil {
		t.Fatalf("explicit: %v", err)
	}
	if got.NeedsReview || got.Status != models.StatusMastered {
		t.Fatalf("after explicit false: review %v status %s", got.NeedsReview, got.Status)
	}

	on := true
	if _, err := svc.SetNeedsReview(ctx, item.ID, user.ID, &on); err != nil {
		t.Fatalf("explicit true: %v", err)
	}
	got, err = svc.SetStatus(ctx, item.ID, user.ID, models.StatusUnanswered)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	var stored models.Item
	db.First(&stored, "id = ?", item.ID)
	if stored.Status != models.StatusUnanswered || !stored.NeedsReview {
		t.Fatalf("stored after set status: status %s review %v", stored.Status, stored.NeedsReview)
	}

	if _, err := svc.SetStatus(ctx, item.ID, user.ID, "NEED_REVIEW"); !errors.Is(err, ErrValidation) {
		t.Fatalf("illegal status err = %v, want validation", err)
	}
	other := testutil.SeedUser(t, db, "eve")
	if _, err := svc.SetNeedsReview(ctx, item.ID, other.ID, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign toggle err = %v, want forbidden", err)
	}
}

func TestAnswerHistoryIsScopedToCaller(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "frank")
	item := testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{})
	svc := NewAnswerService(db)

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, item.ID, user.ID, answerReq(i%2 == 0)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	history, err := svc.History(ctx, item.ID, user.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history len = %d, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.After(history[i-1].CreatedAt) {
			t.Fatalf("history not newest first at %d", i)
		}
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		correct, total int64
		want           float64
	}{
		{0, 0, 0},
		{0, 1, 0},
		{1, 2, 50},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 7, 14.3},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := successRate(tt.correct, tt.total); got != tt.want {
			t.Fatalf("successRate(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestSubmitRollsBackWhenItemUpdateFails(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "rollback")
	item := testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Difficulty: 3})

	errItemWrite := errors.New("item write failed")
	err := db.Callback().Update().Before("gorm:update").Register("test:fail_item_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "items" {
			tx.AddError(errItemWrite)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = NewAnswerService(db).Submit(ctx, item.ID, user.ID, answerReq(false))
	if !errors.Is(err, errItemWrite) {
		t.Fatalf("submit err = %v, want the injected failure", err)
	}
	if isClientError(err) {
		t.Fatalf("store failure classified as client error: %v", err)
	}

	var answers int64
	db.Model(&models.Answer{}).Where("item_id = ?", item.ID).Count(&answers)
	if answers != 0 {
		t.Fatalf("answer rows = %d after rollback, want 0", answers)
	}

	var stored models.Item
	if err := db.First(&stored, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Attempts != 0 || stored.SuccessRate != 0 || stored.Status != models.StatusUnanswered || stored.NeedsReview {
		t.Fatalf("item changed after rollback: attempts %d rate %v status %s review %v",
			stored.Attempts, stored.SuccessRate, stored.Status, stored.NeedsReview)
	}
}
