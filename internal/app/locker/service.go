// internal/app/locker/service.go
package locker

import (
	"context"
	"fmt"

	audit "github.com/plantdesk/plantdesk/internal/app/store/audit"
	employeestore "github.com/plantdesk/plantdesk/internal/app/store/employees"
	lockerstore "github.com/plantdesk/plantdesk/internal/app/store/lockers"
	roomstore "github.com/plantdesk/plantdesk/internal/app/store/rooms"
	"github.com/plantdesk/plantdesk/internal/app/system/auditlog"
	"github.com/plantdesk/plantdesk/internal/app/system/occupancy"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service loads the dataset and runs the read-only audit and diagnostics
// passes, and applies their explicit corrective actions. Corrective
// actions are idempotent: running them twice yields no further deletions.
type Service struct {
	rooms     *roomstore.Store
	lockers   *lockerstore.Store
	employees *employeestore.Store
	writer    *Writer
	audit     *auditlog.Logger
	log       *zap.Logger
}

// NewService constructs the reconciliation service. writer is used for the
// diagnostics corrective action (clearing an assignment is a release).
func NewService(db *mongo.Database, writer *Writer, auditLog *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{
		rooms:     roomstore.New(db),
		lockers:   lockerstore.New(db),
		employees: employeestore.New(db),
		writer:    writer,
		audit:     auditLog,
		log:       logger,
	}
}

// Report runs the full audit pass: unregistered employees, orphaned
// records, and duplicate clusters.
func (s *Service) Report(ctx context.Context) (Report, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list employees: %w", err)
	}
	records, err := s.lockers.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list assignment records: %w", err)
	}
	return BuildReport(employees, records), nil
}

// ResolveDuplicates deletes, in every duplicate cluster, all members but
// the most recently assigned. Returns the number of records deleted.
func (s *Service) ResolveDuplicates(ctx context.Context) (int64, error) {
	rep, err := s.Report(ctx)
	if err != nil {
		return 0, err
	}
	ids := DuplicateDeletions(rep.DuplicateClusters)
	deleted, err := s.lockers.DeleteMany(ctx, ids)
	if err != nil {
		return deleted, fmt.Errorf("delete duplicate records: %w", err)
	}
	if deleted > 0 {
		s.log.Info("resolved duplicate locker assignments", zap.Int64("deleted", deleted))
		s.audit.RepairApplied(ctx, audit.EventDuplicatesResolved, int(deleted))
	}
	return deleted, nil
}

// DeleteOrphans removes every assignment record whose employee no longer
// exists. Returns the number of records deleted.
func (s *Service) DeleteOrphans(ctx context.Context) (int64, error) {
	rep, err := s.Report(ctx)
	if err != nil {
		return 0, err
	}
	deleted, err := s.lockers.DeleteMany(ctx, OrphanDeletions(rep))
	if err != nil {
		return deleted, fmt.Errorf("delete orphan records: %w", err)
	}
	if deleted > 0 {
		s.log.Info("deleted orphan locker records", zap.Int64("deleted", deleted))
		s.audit.RepairApplied(ctx, audit.EventOrphansDeleted, int(deleted))
	}
	return deleted, nil
}

// Diagnostics runs the identifier-validity pass over all rooms and
// assignment records.
func (s *Service) Diagnostics(ctx context.Context) ([]Finding, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	records, err := s.lockers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignment records: %w", err)
	}
	return Diagnose(rooms, records), nil
}

// ClearAssignment applies the diagnostics corrective action to one record:
// release the locker, returning the employee to the needs-assignment pool.
func (s *Service) ClearAssignment(ctx context.Context, recordID primitive.ObjectID) error {
	rec, err := s.lockers.GetByID(ctx, recordID)
	if err != nil {
		return fmt.Errorf("load assignment record: %w", err)
	}
	if _, _, err := s.writer.Release(ctx, rec.EmployeeID, "diagnostics: identifier cleared"); err != nil {
		return err
	}
	s.audit.RepairApplied(ctx, audit.EventAssignmentCleared, 1)
	return nil
}

// Occupancy projects the stats for one room.
func (s *Service) Occupancy(ctx context.Context, roomName string) (occupancy.Stats, error) {
	rc, err := s.rooms.GetByName(ctx, roomName)
	if err == mongo.ErrNoDocuments {
		return occupancy.Stats{}, fmt.Errorf("%w: %q", ErrUnknownRoom, roomName)
	}
	if err != nil {
		return occupancy.Stats{}, fmt.Errorf("load room %q: %w", roomName, err)
	}
	records, err := s.lockers.ListByRoom(ctx, roomName)
	if err != nil {
		return occupancy.Stats{}, fmt.Errorf("list assignments for %q: %w", roomName, err)
	}
	return occupancy.Project(rc, records), nil
}

// OccupancyAll projects the stats for every configured room.
func (s *Service) OccupancyAll(ctx context.Context) ([]occupancy.Stats, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	records, err := s.lockers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignment records: %w", err)
	}
	out := make([]occupancy.Stats, 0, len(rooms))
	for _, rc := range rooms {
		out = append(out, occupancy.Project(rc, records))
	}
	return out, nil
}
