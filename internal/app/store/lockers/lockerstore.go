// internal/app/store/lockers/lockerstore.go
package lockerstore

import (
	"context"
	"time"

	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("locker_assignments")}
}

// Create inserts a new locker assignment document.
//
// If ID is zero a new ObjectID is assigned by MongoDB. If CreatedAt is
// zero it is set to now (UTC).
func (s *Store) Create(ctx context.Context, a models.LockerAssignment) (models.LockerAssignment, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}

	res, err := s.c.InsertOne(ctx, a)
	if err != nil {
		return a, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return a, nil
}

// Update replaces an existing assignment identified by its _id.
// UpdatedAt is set to now (UTC). History is replaced as given; callers
// only ever append to it.
func (s *Store) Update(ctx context.Context, a models.LockerAssignment) (models.LockerAssignment, error) {
	if a.ID.IsZero() {
		return a, mongo.ErrNilDocument
	}
	now := time.Now().UTC()
	a.UpdatedAt = &now

	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	return a, err
}

// Delete removes the assignment with the given _id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteMany removes all assignments with the given ids and returns the
// number deleted.
func (s *Store) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// GetByID returns a single assignment by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.LockerAssignment, error) {
	var a models.LockerAssignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	return a, err
}

// GetByEmployee returns the assignment record for one employee. There is
// at most one per employee by convention.
func (s *Store) GetByEmployee(ctx context.Context, employeeID primitive.ObjectID) (models.LockerAssignment, error) {
	var a models.LockerAssignment
	err := s.c.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&a)
	return a, err
}

// List returns all assignment records.
func (s *Store) List(ctx context.Context) ([]models.LockerAssignment, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LockerAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRoom returns all assignment records for one room.
func (s *Store) ListByRoom(ctx context.Context, room string) ([]models.LockerAssignment, error) {
	cur, err := s.c.Find(ctx, bson.M{"room": room})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LockerAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveByRoom returns the records that occupy a locker in the room:
// requires_locker set and a non-empty current identifier.
func (s *Store) ListActiveByRoom(ctx context.Context, room string) ([]models.LockerAssignment, error) {
	filter := bson.M{
		"room":               room,
		"requires_locker":    true,
		"current_identifier": bson.M{"$nin": bson.A{"", nil}},
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LockerAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetNotificationSent flips the notification flag after a successful send.
func (s *Store) SetNotificationSent(ctx context.Context, id primitive.ObjectID, sent bool) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"notification_sent": sent},
	})
	return err
}
