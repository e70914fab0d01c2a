package rooms_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	roomsfeature "github.com/plantdesk/plantdesk/internal/app/features/rooms"
	"github.com/plantdesk/plantdesk/internal/app/system/indexes"
	"github.com/plantdesk/plantdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, db *mongo.Database) http.Handler {
	t.Helper()
	return roomsfeature.Routes(roomsfeature.NewHandler(db, nil, zap.NewNop()))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	router := newRouter(t, db)

	rec := doJSON(t, router, "POST", "/", map[string]any{
		"name":            "Vestuario A",
		"installed_count": 50,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d, %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Room struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"room"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Room.Name != "Vestuario A" {
		t.Fatalf("name: %q", resp.Room.Name)
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resp.Warnings)
	}

	// Duplicate name is rejected by the unique index.
	rec = doJSON(t, router, "POST", "/", map[string]any{
		"name":            "Vestuario A",
		"installed_count": 10,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: got %d, want 409", rec.Code)
	}
}

func TestCreateRoomIdentifierCountMismatchWarns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db)

	rec := doJSON(t, router, "POST", "/", map[string]any{
		"name":              "Caseta",
		"installed_count":   3,
		"valid_identifiers": []string{"A1", "A2"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d, %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Warnings []string `json:"warnings"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "installed_count") {
		t.Fatalf("expected count-mismatch warning, got %v", resp.Warnings)
	}
}

func TestUpdateRoomShrinkWarnsAboutStrandedAssignments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	rc := f.CreateRoom(ctx, "Vestuario B", 20)
	emp := f.CreateEmployee(ctx, "E1", "Ana")
	f.CreateAssignment(ctx, emp.ID, "Vestuario B", "15")

	router := newRouter(t, db)

	// Shrink below the active assignment. The edit goes through.
	rec := doJSON(t, router, "PUT", "/"+rc.ID.Hex(), map[string]any{
		"name":            "Vestuario B",
		"installed_count": 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d, %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Room struct {
			InstalledCount int `json:"installed_count"`
		} `json:"room"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Room.InstalledCount != 10 {
		t.Fatalf("installed_count not updated: %d", resp.Room.InstalledCount)
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "15") {
		t.Fatalf("expected stranded-assignment warning naming 15, got %v", resp.Warnings)
	}
}
