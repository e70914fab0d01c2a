package roomstore_test

import (
	"testing"

	roomstore "github.com/plantdesk/plantdesk/internal/app/store/rooms"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"github.com/plantdesk/plantdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndGetByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.RoomConfig{
		Name:           "Vestuario A",
		InstalledCount: 120,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetByName(ctx, "Vestuario A")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.InstalledCount != 120 {
		t.Errorf("InstalledCount: got %d, want 120", got.InstalledCount)
	}
}

func TestStore_GetByName_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByName(ctx, "no such room"); err != mongo.ErrNoDocuments {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_UpdateValidIdentifiers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.RoomConfig{
		Name:           "Vestuario B",
		InstalledCount: 3,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	created.ValidIdentifiers = []string{"A1", "A2", "A3"}
	updated, err := store.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.UpdatedAt.Before(created.CreatedAt) {
		t.Error("expected UpdatedAt to advance")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.ValidIdentifiers) != 3 || got.ValidIdentifiers[0] != "A1" {
		t.Errorf("ValidIdentifiers: got %v", got.ValidIdentifiers)
	}
}

func TestStore_Update_ZeroID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Update(ctx, models.RoomConfig{Name: "no id"}); err != mongo.ErrNilDocument {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
}

func TestStore_ListSortedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Vestuario C", "Vestuario A", "Vestuario B"} {
		if _, err := store.Create(ctx, models.RoomConfig{Name: name, InstalledCount: 10}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	rooms, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(rooms))
	}
	for i, want := range []string{"Vestuario A", "Vestuario B", "Vestuario C"} {
		if rooms[i].Name != want {
			t.Errorf("rooms[%d].Name: got %q, want %q", i, rooms[i].Name, want)
		}
	}
}
