package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateEmployee creates a test employee with the given code and name.
func (f *Fixtures) CreateEmployee(ctx context.Context, code, fullName string) models.Employee {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Employee{
		ID:         primitive.NewObjectID(),
		Code:       code,
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Department: "Producción",
		Shift:      "day",
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("employees").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test employee: %v", err)
	}
	return e
}

// CreateMasterEmployee creates the master database projection for an
// employee.
func (f *Fixtures) CreateMasterEmployee(ctx context.Context, e models.Employee) models.MasterEmployee {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.MasterEmployee{
		ID:         primitive.NewObjectID(),
		EmployeeID: e.ID,
		Code:       e.Code,
		FullName:   e.FullName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("master_employees").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test master employee: %v", err)
	}
	return m
}

// CreateRoom creates a room configuration with implicit 1..installed
// numbering.
func (f *Fixtures) CreateRoom(ctx context.Context, name string, installed int) models.RoomConfig {
	f.t.Helper()
	return f.CreateRoomWithIdentifiers(ctx, name, installed, nil)
}

// CreateRoomWithIdentifiers creates a room configuration with an explicit
// valid identifier list.
func (f *Fixtures) CreateRoomWithIdentifiers(ctx context.Context, name string, installed int, validIDs []string) models.RoomConfig {
	f.t.Helper()

	now := time.Now().UTC()
	rc := models.RoomConfig{
		ID:               primitive.NewObjectID(),
		Name:             name,
		InstalledCount:   installed,
		ValidIdentifiers: validIDs,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("room_configs").InsertOne(ctx, rc); err != nil {
		f.t.Fatalf("failed to create test room: %v", err)
	}
	return rc
}

// CreateAssignment creates an active locker assignment record.
func (f *Fixtures) CreateAssignment(ctx context.Context, employeeID primitive.ObjectID, room, identifier string) models.LockerAssignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.LockerAssignment{
		ID:                primitive.NewObjectID(),
		EmployeeID:        employeeID,
		RequiresLocker:    true,
		Room:              room,
		CurrentIdentifier: identifier,
		AssignedAt:        &now,
		CreatedAt:         now,
	}

	if _, err := f.db.Collection("locker_assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}
