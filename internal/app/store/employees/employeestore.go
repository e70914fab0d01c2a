// internal/app/store/employees/employeestore.go
package employeestore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
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
	return &Store{c: db.Collection("employees")}
}

// Create inserts a new employee record. FullNameCI is derived from FullName
// so name lookups do not depend on callers folding consistently.
func (s *Store) Create(ctx context.Context, e models.Employee) (models.Employee, error) {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	e.FullNameCI = text.Fold(e.FullName)

	res, err := s.c.InsertOne(ctx, e)
	if err != nil {
		return e, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid
	}
	return e, nil
}

// Update replaces an existing employee identified by its _id.
func (s *Store) Update(ctx context.Context, e models.Employee) (models.Employee, error) {
	if e.ID.IsZero() {
		return e, mongo.ErrNilDocument
	}
	e.UpdatedAt = time.Now().UTC()
	e.FullNameCI = text.Fold(e.FullName)

	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	return e, err
}

// Delete removes the employee with the given _id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// GetByID returns a single employee by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Employee, error) {
	var e models.Employee
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	return e, err
}

// GetByCode returns the employee with the given badge code.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Employee, error) {
	var e models.Employee
	err := s.c.FindOne(ctx, bson.M{"code": code}).Decode(&e)
	return e, err
}

// List returns all employees sorted by folded full name.
func (s *Store) List(ctx context.Context) ([]models.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Employee
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetLockerFields writes the denormalized locker mirror fields on the
// primary employee record. The locker assignment record remains the source
// of truth; this is a best-effort cache update.
func (s *Store) SetLockerFields(ctx context.Context, id primitive.ObjectID, room, identifier string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"locker_room":       room,
			"locker_identifier": identifier,
			"updated_at":        time.Now().UTC(),
		},
	})
	return err
}
