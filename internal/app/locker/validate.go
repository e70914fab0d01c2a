// internal/app/locker/validate.go
package locker

import (
	"github.com/plantdesk/plantdesk/internal/app/system/lockerid"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateAssignment checks a proposed (room, identifier, employee) triple
// against the room configuration and the active records already loaded for
// that room. It has no side effects and is safe to call speculatively
// before committing a write.
//
// It fails with ErrInvalidIdentifier when the room carries an explicit
// identifier list and the normalized identifier is not a member, and with
// *DuplicateError when another employee actively holds the same normalized
// identifier in the same room. An empty identifier (a release) always
// validates.
func ValidateAssignment(employeeID primitive.ObjectID, room models.RoomConfig, identifier string, active []models.LockerAssignment) error {
	id := lockerid.Normalize(identifier)
	if id == "" {
		return nil
	}

	if len(room.ValidIdentifiers) > 0 {
		member := false
		for _, valid := range room.ValidIdentifiers {
			if lockerid.Normalize(valid) == id {
				member = true
				break
			}
		}
		if !member {
			return ErrInvalidIdentifier
		}
	}

	for _, a := range active {
		if !a.RequiresLocker || a.EmployeeID == employeeID {
			continue
		}
		if a.Room == room.Name && lockerid.Normalize(a.CurrentIdentifier) == id {
			return &DuplicateError{Room: room.Name, Identifier: id, Holder: a.EmployeeID}
		}
	}
	return nil
}
