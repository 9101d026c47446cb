package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lorekeep/lorekeep/internal/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutAndListRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := db.ForKind(types.KindCharacter)

	in := types.Entity{
		ID:                "ch-1",
		Name:              "Mira Thornwood",
		CreatedAt:         "2024-03-01T10:00:00Z",
		UpdatedAt:         "2024-03-02T10:00:00Z",
		CreatedBy:         "gm-1",
		RelationshipCount: 2,
		Attrs:             map[string]string{"class": "ranger", "level": "5"},
	}
	if err := store.Put(ctx, &in); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entities, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(entities))
	}

	got := entities[0]
	if got.Name != in.Name || got.CreatedAt != in.CreatedAt || got.RelationshipCount != 2 {
		t.Errorf("Round trip mismatch: got %+v", got)
	}
	if got.Attrs["class"] != "ranger" || got.Attrs["level"] != "5" {
		t.Errorf("Attrs did not round trip: got %v", got.Attrs)
	}
}

func TestPutGeneratesMissingID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := db.ForKind(types.KindNote)

	e := types.Entity{Name: "Untitled note"}
	if err := store.Put(ctx, &e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if e.ID == "" {
		t.Fatal("Put did not assign an id")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := db.ForKind(types.KindItem)

	for _, id := range []string{"zzz", "aaa", "mmm"} {
		if err := store.Put(ctx, &types.Entity{ID: id, Name: "Thing " + id}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entities, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"zzz", "aaa", "mmm"}
	for i, e := range entities {
		if e.ID != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], e.ID)
		}
	}
}

func TestDeleteMissingIDIsNoOp(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := db.ForKind(types.KindLocation)

	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of missing id should be a no-op, got: %v", err)
	}
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := db.ForKind(types.KindFaction)

	for _, id := range []string{"f1", "f2"} {
		if err := store.Put(ctx, &types.Entity{ID: id, Name: "Iron Pact"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := store.Delete(ctx, "f1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	entities, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entities) != 1 || entities[0].ID != "f2" {
		t.Errorf("Expected only f2 to remain, got %+v", entities)
	}
}

func TestKindsAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Same id in two collections must not collide.
	if err := db.ForKind(types.KindWorld).Put(ctx, &types.Entity{ID: "shared", Name: "Aerth"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := db.ForKind(types.KindCampaign).Put(ctx, &types.Entity{ID: "shared", Name: "First Age"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := db.ForKind(types.KindWorld).Delete(ctx, "shared"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	campaigns, err := db.ForKind(types.KindCampaign).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(campaigns) != 1 {
		t.Errorf("Deleting from worlds must not touch campaigns, got %d campaigns", len(campaigns))
	}

	n, err := db.ForKind(types.KindCampaign).Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected count 1, got %d", n)
	}
}

func TestPutReplacesExisting(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := db.ForKind(types.KindSession)

	if err := store.Put(ctx, &types.Entity{ID: "s1", Name: "Session 1"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, &types.Entity{ID: "s1", Name: "Session One"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entities, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entities) != 1 || entities[0].Name != "Session One" {
		t.Errorf("Expected replaced entity, got %+v", entities)
	}
}
