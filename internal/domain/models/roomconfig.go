// internal/domain/models/roomconfig.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomConfig describes one locker room: how many lockers are installed and,
// optionally, the explicit list of valid locker identifiers.
//
// When ValidIdentifiers is empty the valid set is the sequential numbering
// "1".."InstalledCount", derived on demand (lockerid.ValidSet) and never
// stored. When non-empty it should contain no duplicates and its length
// should equal InstalledCount; this is enforced at edit time only.
type RoomConfig struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"` // unique key
	InstalledCount   int                `bson:"installed_count" json:"installed_count"`
	ValidIdentifiers []string           `bson:"valid_identifiers,omitempty" json:"valid_identifiers,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
