// internal/domain/models/lockerassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LockerAssignment is the canonical record of one employee's locker. There
// is at most one record per employee (by convention, not by a storage
// constraint). The Employee and MasterEmployee locker fields are read
// copies of Room/CurrentIdentifier; this record always wins.
type LockerAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID primitive.ObjectID `bson:"employee_id" json:"employee_id"`

	RequiresLocker bool `bson:"requires_locker" json:"requires_locker"`

	// Room is the room name (RoomConfig.Name); may be empty.
	Room string `bson:"room,omitempty" json:"room,omitempty"`
	// CurrentIdentifier is the normalized locker id; empty means no locker.
	CurrentIdentifier string `bson:"current_identifier,omitempty" json:"current_identifier,omitempty"`
	// PendingIdentifier stages a reassignment target. The dashboard's
	// drag-and-drop bulk staging writes it directly to the collection; this
	// service only reads it and clears it when a Writer commit lands.
	PendingIdentifier string `bson:"pending_identifier,omitempty" json:"pending_identifier,omitempty"`

	AssignedAt       *time.Time `bson:"assigned_at,omitempty" json:"assigned_at,omitempty"`
	NotificationSent bool       `bson:"notification_sent" json:"notification_sent"`

	// History is append-only; existing entries are never edited or removed.
	History []LockerChange `bson:"history,omitempty" json:"history,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// LockerChange is one entry in a LockerAssignment history.
type LockerChange struct {
	EntryID        string    `bson:"entry_id" json:"entry_id"` // uuid
	At             time.Time `bson:"at" json:"at"`
	FromRoom       string    `bson:"from_room,omitempty" json:"from_room,omitempty"`
	FromIdentifier string    `bson:"from_identifier,omitempty" json:"from_identifier,omitempty"`
	ToRoom         string    `bson:"to_room,omitempty" json:"to_room,omitempty"`
	ToIdentifier   string    `bson:"to_identifier,omitempty" json:"to_identifier,omitempty"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Active reports whether this record occupies a physical locker: the
// employee needs one and an identifier is set.
func (a LockerAssignment) Active() bool {
	return a.RequiresLocker && a.CurrentIdentifier != ""
}
