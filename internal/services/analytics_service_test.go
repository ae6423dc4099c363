package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/testutil"
)

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "alice")
	other := testutil.SeedUser(t, db, "bob")

	col := testutil.SeedCollection(t, db, user.ID, "My Collection", models.CollectionTypeCustom)
	trashed := testutil.SeedCollection(t, db, user.ID, "Old", models.CollectionTypeCustom)
	db.Model(trashed).Update("is_deleted", true)

	testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Subject: "MATHS", Difficulty: 3, Status: models.StatusMastered, CollectionID: &col.ID})
	testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Subject: "MATHS", Difficulty: 4, Status: models.StatusAnswered, NeedsReview: true})
	testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Subject: "READING", Difficulty: 1, CollectionID: &col.ID})
	testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{Difficulty: 1, CollectionID: &trashed.ID, NeedsReview: true})
	testutil.SeedItem(t, db, other.ID, testutil.ItemOpts{Subject: "MATHS", Status: models.StatusMastered})

	report, err := NewAnalyticsService(db).GetStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if report.Total != 4 || report.Answered != 2 || report.Mastered != 1 || report.NeedsReview != 2 {
		t.Fatalf("totals = %d/%d/%d/%d", report.Total, report.Answered, report.Mastered, report.NeedsReview)
	}

	maths := report.BySubject["MATHS"]
	if maths.Total != 2 || maths.Answered != 2 || maths.Mastered != 1 {
		t.Fatalf("MATHS = %+v", maths)
	}
	if len(report.BySubject) != len(models.Subjects) || report.BySubject["WRITING"].Total != 0 {
		t.Fatalf("by_subject = %+v", report.BySubject)
	}

	wantDiff := map[string]int{"1": 2, "2": 0, "3": 1, "4": 1, "5": 0}
	for k, v := range wantDiff {
		if report.ByDifficulty[k] != v {
			t.Fatalf("by_difficulty[%s] = %d, want %d", k, report.ByDifficulty[k], v)
		}
	}

	if len(report.ByCollection) != 1 {
		t.Fatalf("by_collection should only hold active collections: %+v", report.ByCollection)
	}
	cs := report.ByCollection[col.ID.String()]
	if cs.Name != "My Collection" || cs.Total != 2 || cs.Answered != 1 || cs.Mastered != 1 {
		t.Fatalf("collection stats = %+v", cs)
	}
}

func TestGetStatsEmpty(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "carol")

	report, err := NewAnalyticsService(db).GetStats(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if report.Total != 0 || len(report.ByDifficulty) != 5 || len(report.BySubject) != 4 {
		t.Fatalf("empty report = %+v", report)
	}
}
