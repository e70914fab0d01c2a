// internal/domain/models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee is the primary employee record shown in the plant directory.
//
// LockerRoom and LockerIdentifier are denormalized read copies of the
// employee's LockerAssignment. They are written by the locker Writer after
// the canonical assignment record and must never be treated as
// authoritative; the reconciliation sweep repairs them when they drift.
type Employee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code       string             `bson:"code" json:"code"` // plant badge number
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Shift      string             `bson:"shift,omitempty" json:"shift,omitempty"` // day | night | rotating
	Status     string             `bson:"status,omitempty" json:"status,omitempty"`

	LockerRoom       string `bson:"locker_room,omitempty" json:"locker_room,omitempty"`
	LockerIdentifier string `bson:"locker_identifier,omitempty" json:"locker_identifier,omitempty"`

	Email string `bson:"email,omitempty" json:"email,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
