package locker

import (
	"errors"
	"testing"

	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateAssignment_InvalidIdentifier(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario B", InstalledCount: 2, ValidIdentifiers: []string{"L1", "L2"}}

	err := ValidateAssignment(primitive.NewObjectID(), room, "L3", nil)
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestValidateAssignment_QuotedIdentifierAccepted(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario B", InstalledCount: 2, ValidIdentifiers: []string{"L1", "L2"}}

	if err := ValidateAssignment(primitive.NewObjectID(), room, "'L2'", nil); err != nil {
		t.Fatalf("quoted member should validate, got %v", err)
	}
}

func TestValidateAssignment_Duplicate(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario A", InstalledCount: 10}
	holder := primitive.NewObjectID()
	active := []models.LockerAssignment{{
		ID:                primitive.NewObjectID(),
		EmployeeID:        holder,
		RequiresLocker:    true,
		Room:              "Vestuario A",
		CurrentIdentifier: "7",
	}}

	err := ValidateAssignment(primitive.NewObjectID(), room, "'7'", active)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.Holder != holder {
		t.Errorf("Holder = %s, want %s", dup.Holder.Hex(), holder.Hex())
	}
	if dup.Room != "Vestuario A" || dup.Identifier != "7" {
		t.Errorf("conflict at %s/%s, want Vestuario A/7", dup.Room, dup.Identifier)
	}
}

func TestValidateAssignment_SameEmployeeNotDuplicate(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario A", InstalledCount: 10}
	emp := primitive.NewObjectID()
	active := []models.LockerAssignment{{
		ID:                primitive.NewObjectID(),
		EmployeeID:        emp,
		RequiresLocker:    true,
		Room:              "Vestuario A",
		CurrentIdentifier: "7",
	}}

	if err := ValidateAssignment(emp, room, "7", active); err != nil {
		t.Fatalf("re-validating own locker should pass, got %v", err)
	}
}

func TestValidateAssignment_InactiveHolderNotDuplicate(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario A", InstalledCount: 10}
	released := models.LockerAssignment{
		ID:                primitive.NewObjectID(),
		EmployeeID:        primitive.NewObjectID(),
		RequiresLocker:    false,
		Room:              "Vestuario A",
		CurrentIdentifier: "7",
	}

	err := ValidateAssignment(primitive.NewObjectID(), room, "7", []models.LockerAssignment{released})
	if err != nil {
		t.Fatalf("holder without requires_locker should not conflict, got %v", err)
	}
}

func TestValidateAssignment_ReleaseAlwaysValid(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario B", InstalledCount: 2, ValidIdentifiers: []string{"L1"}}
	if err := ValidateAssignment(primitive.NewObjectID(), room, "", nil); err != nil {
		t.Fatalf("empty identifier must validate, got %v", err)
	}
}

// End-to-end check from the dashboard scenario: reassigning E1 onto E2's
// locker without a release must fail and name E2.
func TestValidateAssignment_Scenario(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario A", InstalledCount: 3}
	e1, e2 := primitive.NewObjectID(), primitive.NewObjectID()
	active := []models.LockerAssignment{
		{ID: primitive.NewObjectID(), EmployeeID: e1, RequiresLocker: true, Room: "Vestuario A", CurrentIdentifier: "1"},
		{ID: primitive.NewObjectID(), EmployeeID: e2, RequiresLocker: true, Room: "Vestuario A", CurrentIdentifier: "2"},
	}

	err := ValidateAssignment(e1, room, "2", active)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.Holder != e2 {
		t.Errorf("conflicting holder = %s, want E2 %s", dup.Holder.Hex(), e2.Hex())
	}
}
