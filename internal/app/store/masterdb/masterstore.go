// internal/app/store/masterdb/masterstore.go
package masterstore

import (
	"context"
	"time"

	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps the plant master database employee projection, the second
// mirror of locker assignment fields.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("master_employees")}
}

// Upsert inserts or replaces the master record for an employee, keyed by
// employee_id.
func (s *Store) Upsert(ctx context.Context, m models.MasterEmployee) (models.MasterEmployee, error) {
	if m.EmployeeID.IsZero() {
		return m, mongo.ErrNilDocument
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err := s.c.ReplaceOne(ctx, bson.M{"employee_id": m.EmployeeID}, m, opts)
	return m, err
}

// GetByEmployeeID returns the master record for the given employee.
func (s *Store) GetByEmployeeID(ctx context.Context, employeeID primitive.ObjectID) (models.MasterEmployee, error) {
	var m models.MasterEmployee
	err := s.c.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&m)
	return m, err
}

// Delete removes the master record for the given employee.
func (s *Store) Delete(ctx context.Context, employeeID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"employee_id": employeeID})
	return err
}

// List returns all master records.
func (s *Store) List(ctx context.Context) ([]models.MasterEmployee, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MasterEmployee
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetLockerFields writes the denormalized locker mirror fields on the
// master record, creating the record if the master feed has not delivered
// it yet.
func (s *Store) SetLockerFields(ctx context.Context, employeeID primitive.ObjectID, room, identifier string) error {
	now := time.Now().UTC()
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"employee_id": employeeID}, bson.M{
		"$set": bson.M{
			"locker_room":       room,
			"locker_identifier": identifier,
			"updated_at":        now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}, opts)
	return err
}
