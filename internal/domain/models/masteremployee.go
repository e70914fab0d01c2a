// internal/domain/models/masteremployee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MasterEmployee is the employee projection in the plant master database,
// the second mirror of locker assignment fields. It is keyed by the same
// employee id as the primary Employee record and carries the HR-owned
// fields the dashboard only reads.
type MasterEmployee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	Code       string             `bson:"code" json:"code"`
	FullName   string             `bson:"full_name" json:"full_name"`
	CostCenter string             `bson:"cost_center,omitempty" json:"cost_center,omitempty"`

	LockerRoom       string `bson:"locker_room,omitempty" json:"locker_room,omitempty"`
	LockerIdentifier string `bson:"locker_identifier,omitempty" json:"locker_identifier,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
