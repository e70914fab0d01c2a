// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"time"

	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("room_configs")}
}

// Create inserts a new room configuration document.
//
// Name uniqueness is enforced by the index created at startup; a duplicate
// name surfaces as a mongo write error. If CreatedAt is zero it is set to
// now (UTC).
func (s *Store) Create(ctx context.Context, rc models.RoomConfig) (models.RoomConfig, error) {
	now := time.Now().UTC()
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = now
	}
	rc.UpdatedAt = now

	res, err := s.c.InsertOne(ctx, rc)
	if err != nil {
		return rc, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rc.ID = oid
	}
	return rc, nil
}

// Update replaces an existing room configuration identified by its _id.
func (s *Store) Update(ctx context.Context, rc models.RoomConfig) (models.RoomConfig, error) {
	if rc.ID.IsZero() {
		return rc, mongo.ErrNilDocument
	}
	rc.UpdatedAt = time.Now().UTC()

	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": rc.ID}, rc)
	return rc, err
}

// GetByID returns a single room configuration by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.RoomConfig, error) {
	var rc models.RoomConfig
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rc)
	return rc, err
}

// GetByName returns the room configuration with the given (unique) name.
func (s *Store) GetByName(ctx context.Context, name string) (models.RoomConfig, error) {
	var rc models.RoomConfig
	err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&rc)
	return rc, err
}

// List returns all room configurations sorted by name.
func (s *Store) List(ctx context.Context) ([]models.RoomConfig, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RoomConfig
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
