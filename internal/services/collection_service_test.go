package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/testutil"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestCreateCollectionRejectsActiveDuplicate(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	svc := NewCollectionService(db)

	col, err := svc.Create(ctx, alice.ID, &dto.CreateCollectionRequest{Name: "  Geometry ", Icon: strPtr("ruler")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if col.Name != "Geometry" || col.Type != models.CollectionTypeCustom {
		t.Fatalf("created %+v", col)
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateCollectionRequest{Name: "Geometry"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate err = %v, want conflict", err)
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateCollectionRequest{Name: "geometry"}); err != nil {
		t.Fatalf("names are case-sensitive, got %v", err)
	}
	if _, err := svc.Create(ctx, bob.ID, &dto.CreateCollectionRequest{Name: "Geometry"}); err != nil {
		t.Fatalf("other user same name: %v", err)
	}
	if _, err := svc.Create(ctx, alice.ID, &dto.CreateCollectionRequest{Name: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name err = %v, want validation", err)
	}
}

func TestStoreEnforcesActiveNameUniqueness(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "carol")
	testutil.SeedCollection(t, db, user.ID, "Vocab", models.CollectionTypeCustom)

	dup := models.Collection{ID: uuid.New(), UserID: user.ID, Name: "Vocab", Type: models.CollectionTypeCustom}
	err := db.Create(&dup).Error
	if err == nil || !isUniqueViolation(err) {
		t.Fatalf("store accepted duplicate active name, err = %v", err)
	}

	trashed := models.Collection{ID: uuid.New(), UserID: user.ID, Name: "Vocab", Type: models.CollectionTypeCustom, IsDeleted: true}
	if err := db.Create(&trashed).Error; err != nil {
		t.Fatalf("tombstone with same name rejected: %v", err)
	}
}

func TestSoftDeleteFreesNameAndRestoreConflicts(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "dave")
	svc := NewCollectionService(db)

	first, err := svc.Create(ctx, user.ID, &dto.CreateCollectionRequest{Name: "Poems"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	trashed, err := svc.SoftDelete(ctx, first.ID, user.ID)
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if !trashed.IsDeleted || trashed.DeletedAt == nil {
		t.Fatalf("soft delete did not stamp tombstone: %+v", trashed)
	}

	second, err := svc.Create(ctx, user.ID, &dto.CreateCollectionRequest{Name: "Poems"})
	if err != nil {
		t.Fatalf("reuse trashed name: %v", err)
	}

	if _, err := svc.Restore(ctx, first.ID, user.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("restore err = %v, want conflict", err)
	}

	var a, b models.Collection
	db.First(&a, "id = ?", first.ID)
	db.First(&b, "id = ?", second.ID)
	if !a.IsDeleted || a.DeletedAt == nil {
		t.Fatalf("failed restore changed the trashed collection: %+v", a)
	}
	if b.IsDeleted || b.Name != "Poems" {
		t.Fatalf("failed restore changed the active collection: %+v", b)
	}

	renamed := "Poems (old)"
	if _, err := svc.Update(ctx, first.ID, user.ID, &dto.UpdateCollectionRequest{Name: &renamed}); err != nil {
		t.Fatalf("rename trashed: %v", err)
	}
	restored, err := svc.Restore(ctx, first.ID, user.ID)
	if err != nil {
		t.Fatalf("restore after rename: %v", err)
	}
	if restored.IsDeleted || restored.DeletedAt != nil {
		t.Fatalf("restore left tombstone: %+v", restored)
	}

	again, err := svc.Restore(ctx, first.ID, user.ID)
	if err != nil || again.IsDeleted {
		t.Fatalf("restoring an active collection should be a no-op, got %v", err)
	}
}

func TestRenameIntoActiveNameConflicts(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "erin")
	svc := NewCollectionService(db)

	testutil.SeedCollection(t, db, user.ID, "Algebra", models.CollectionTypeCustom)
	other := testutil.SeedCollection(t, db, user.ID, "Calculus", models.CollectionTypeCustom)

	name := "Algebra"
	if _, err := svc.Update(ctx, other.ID, user.ID, &dto.UpdateCollectionRequest{Name: &name}); !errors.Is(err, ErrConflict) {
		t.Fatalf("rename err = %v, want conflict", err)
	}
	stranger := testutil.SeedUser(t, db, "stranger")
	if _, err := svc.Update(ctx, other.ID, stranger.ID, &dto.UpdateCollectionRequest{Name: strPtr("Mine")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign rename err = %v, want forbidden", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), user.ID, &dto.UpdateCollectionRequest{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing collection err = %v, want not found", err)
	}
}

func TestHardDeleteRequiresTrashAndCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "frank")
	svc := NewCollectionService(db)
	tags := NewTagService(db)
	answers := NewAnswerService(db)

	col := testutil.SeedCollection(t, db, user.ID, "Doomed", models.CollectionTypeCustom)
	keep := testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{})
	var doomed []*models.Item
	for i := 0; i < 3; i++ {
		doomed = append(doomed, testutil.SeedItem(t, db, user.ID, testutil.ItemOpts{CollectionID: &col.ID}))
	}
	if _, err := tags.ReplaceTags(ctx, doomed[0].ID, user.ID, []string{"hard"}); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if _, err := answers.Submit(ctx, doomed[1].ID, user.ID, answerReq(true)); err != nil {
		t.Fatalf("answer: %v", err)
	}

	if _, err := svc.HardDelete(ctx, col.ID, user.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("hard delete of active collection err = %v, want validation", err)
	}
	var count int64
	db.Model(&models.Item{}).Where("collection_id = ?", col.ID).Count(&count)
	if count != 3 {
		t.Fatalf("rejected hard delete removed items, %d left", count)
	}

	if _, err := svc.SoftDelete(ctx, col.ID, user.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	removed, err := svc.HardDelete(ctx, col.ID, user.ID)
	if err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed %d items, want 3", removed)
	}

	db.Model(&models.Item{}).Where("collection_id = ?", col.ID).Count(&count)
	if count != 0 {
		t.Fatalf("%d items survived hard delete", count)
	}
	db.Model(&models.Collection{}).Where("id = ?", col.ID).Count(&count)
	if count != 0 {
		t.Fatal("collection row survived hard delete")
	}
	db.Model(&models.ItemTag{}).Count(&count)
	if count != 0 {
		t.Fatalf("%d item_tags rows survived", count)
	}
	db.Model(&models.Answer{}).Count(&count)
	if count != 0 {
		t.Fatalf("%d answers survived", count)
	}
	db.Model(&models.Tag{}).Count(&count)
	if count != 1 {
		t.Fatalf("tags = %d, orphaned tag should be kept", count)
	}
	db.Model(&models.Item{}).Where("id = ?", keep.ID).Count(&count)
	if count != 1 {
		t.Fatal("unrelated item was deleted")
	}
}

func TestListAndTrash(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "gina")
	svc := NewCollectionService(db)

	if err := seedSubjectCollections(db, user.ID); err != nil {
		t.Fatalf("seed subjects: %v", err)
	}
	extra, err := svc.Create(ctx, user.ID, &dto.CreateCollectionRequest{Name: "Extra"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SoftDelete(ctx, extra.ID, user.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	active, err := svc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != len(models.Subjects) {
		t.Fatalf("active = %d, want %d", len(active), len(models.Subjects))
	}
	for _, c := range active {
		if c.Type != models.CollectionTypeSubject || c.Icon == nil || c.Color == nil {
			t.Fatalf("subject collection %+v not seeded fully", c)
		}
	}
	trash, err := svc.Trash(ctx, user.ID)
	if err != nil {
		t.Fatalf("trash: %v", err)
	}
	if len(trash) != 1 || trash[0].ID != extra.ID {
		t.Fatalf("trash = %+v", trash)
	}
}
