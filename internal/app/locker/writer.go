// internal/app/locker/writer.go
package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	employeestore "github.com/plantdesk/plantdesk/internal/app/store/employees"
	lockerstore "github.com/plantdesk/plantdesk/internal/app/store/lockers"
	masterstore "github.com/plantdesk/plantdesk/internal/app/store/masterdb"
	roomstore "github.com/plantdesk/plantdesk/internal/app/store/rooms"
	"github.com/plantdesk/plantdesk/internal/app/system/auditlog"
	"github.com/plantdesk/plantdesk/internal/app/system/lockerid"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifier delivers a locker-change message to an employee. Delivery
// failure never rolls back the assignment.
type Notifier interface {
	LockerChanged(ctx context.Context, employee models.Employee, room, identifier string) error
}

// Writer performs the logical multi-record locker write: validate, upsert
// the canonical assignment record, then mirror the result into the two
// employee projections.
//
// The mirror step is deliberately not atomic with the canonical write.
// When a mirror write fails the assignment record is the sole source of
// truth and the mirrors stay stale until the reconciliation sweep or a
// later write repairs them; the caller receives a SyncWarning, not an
// error.
type Writer struct {
	rooms     *roomstore.Store
	lockers   *lockerstore.Store
	employees *employeestore.Store
	master    *masterstore.Store
	notifier  Notifier
	audit     *auditlog.Logger
	log       *zap.Logger
}

// NewWriter constructs a Writer over the four stores. notifier and audit
// may be nil; both are best-effort side channels.
func NewWriter(db *mongo.Database, notifier Notifier, audit *auditlog.Logger, logger *zap.Logger) *Writer {
	return &Writer{
		rooms:     roomstore.New(db),
		lockers:   lockerstore.New(db),
		employees: employeestore.New(db),
		master:    masterstore.New(db),
		notifier:  notifier,
		audit:     audit,
		log:       logger,
	}
}

// Assign gives the employee the locker (room, identifier), or releases the
// current locker when identifier is empty. Any non-empty room must name an
// existing RoomConfig, locker or not.
//
// Validation failures abort before any write. After the canonical record
// is written, mirror failures are reported through the returned
// SyncWarning and the returned record is still valid.
func (w *Writer) Assign(ctx context.Context, employeeID primitive.ObjectID, room, identifier, reason string) (models.LockerAssignment, *SyncWarning, error) {
	id := lockerid.Normalize(identifier)

	if id != "" || room != "" {
		rc, err := w.rooms.GetByName(ctx, room)
		if err == mongo.ErrNoDocuments {
			return models.LockerAssignment{}, nil, fmt.Errorf("%w: %q", ErrUnknownRoom, room)
		}
		if err != nil {
			return models.LockerAssignment{}, nil, fmt.Errorf("load room %q: %w", room, err)
		}

		if id != "" {
			active, err := w.lockers.ListActiveByRoom(ctx, room)
			if err != nil {
				return models.LockerAssignment{}, nil, fmt.Errorf("load active assignments for %q: %w", room, err)
			}
			if err := ValidateAssignment(employeeID, rc, id, active); err != nil {
				return models.LockerAssignment{}, nil, err
			}
		}
	}

	rec, err := w.lockers.GetByEmployee(ctx, employeeID)
	isNew := err == mongo.ErrNoDocuments
	if err != nil && !isNew {
		return models.LockerAssignment{}, nil, fmt.Errorf("load assignment record: %w", err)
	}
	if isNew {
		rec = models.LockerAssignment{
			EmployeeID:     employeeID,
			RequiresLocker: true,
		}
	}

	changed := rec.Room != room || lockerid.Normalize(rec.CurrentIdentifier) != id
	if !changed && !isNew && rec.PendingIdentifier == "" {
		// Nothing to write; releasing an unassigned employee lands here.
		return rec, nil, nil
	}

	now := time.Now().UTC()
	if changed {
		rec.History = append(rec.History, models.LockerChange{
			EntryID:        uuid.NewString(),
			At:             now,
			FromRoom:       rec.Room,
			FromIdentifier: lockerid.Normalize(rec.CurrentIdentifier),
			ToRoom:         room,
			ToIdentifier:   id,
			Reason:         reason,
		})
		rec.NotificationSent = false
		if id != "" {
			t := now
			rec.AssignedAt = &t
		}
	}
	rec.Room = room
	rec.CurrentIdentifier = id
	rec.PendingIdentifier = ""

	if isNew {
		rec, err = w.lockers.Create(ctx, rec)
	} else {
		rec, err = w.lockers.Update(ctx, rec)
	}
	if err != nil {
		return models.LockerAssignment{}, nil, fmt.Errorf("write assignment record: %w", err)
	}

	// A release mirrors empty values: only the record keeps the room
	// preference, and the sweep expects cleared mirrors for inactive records.
	mirrorRoom := room
	if id == "" {
		mirrorRoom = ""
	}
	warn := w.syncMirrors(ctx, employeeID, mirrorRoom, id)

	if w.audit != nil && changed {
		w.audit.LockerAssigned(ctx, employeeID, room, id, reason)
	}
	if changed && id != "" {
		w.notify(ctx, &rec)
	}

	return rec, warn, nil
}

// Release clears the employee's locker while keeping the assignment record
// (and with it the room preference and requires-locker flag). Releasing an
// employee who has no locker is a no-op.
func (w *Writer) Release(ctx context.Context, employeeID primitive.ObjectID, reason string) (models.LockerAssignment, *SyncWarning, error) {
	rec, err := w.lockers.GetByEmployee(ctx, employeeID)
	if err == mongo.ErrNoDocuments {
		return models.LockerAssignment{EmployeeID: employeeID, RequiresLocker: true}, nil, nil
	}
	if err != nil {
		return models.LockerAssignment{}, nil, fmt.Errorf("load assignment record: %w", err)
	}
	return w.Assign(ctx, employeeID, rec.Room, "", reason)
}

// syncMirrors pushes (room, identifier) into the two employee projections.
// Each mirror write gets one retry; remaining failures become a
// SyncWarning. Returns nil when both mirrors are in sync.
func (w *Writer) syncMirrors(ctx context.Context, employeeID primitive.ObjectID, room, identifier string) *SyncWarning {
	primaryErr := w.employees.SetLockerFields(ctx, employeeID, room, identifier)
	if primaryErr != nil {
		primaryErr = w.employees.SetLockerFields(ctx, employeeID, room, identifier)
	}
	masterErr := w.master.SetLockerFields(ctx, employeeID, room, identifier)
	if masterErr != nil {
		masterErr = w.master.SetLockerFields(ctx, employeeID, room, identifier)
	}

	if primaryErr == nil && masterErr == nil {
		return nil
	}

	warn := &SyncWarning{PrimaryMirrorErr: primaryErr, MasterMirrorErr: masterErr}
	w.log.Warn("locker mirror sync incomplete",
		zap.String("employee_id", employeeID.Hex()),
		zap.String("room", room),
		zap.String("identifier", identifier),
		zap.NamedError("primary_mirror", primaryErr),
		zap.NamedError("master_mirror", masterErr))
	if w.audit != nil {
		w.audit.MirrorSyncIncomplete(ctx, employeeID, room, identifier, warn.Error())
	}
	return warn
}

// notify sends the locker-change message and, on success, flips the
// notification flag on the stored record.
func (w *Writer) notify(ctx context.Context, rec *models.LockerAssignment) {
	if w.notifier == nil {
		return
	}
	emp, err := w.employees.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		w.log.Warn("locker notification skipped: employee load failed",
			zap.String("employee_id", rec.EmployeeID.Hex()), zap.Error(err))
		return
	}
	if err := w.notifier.LockerChanged(ctx, emp, rec.Room, rec.CurrentIdentifier); err != nil {
		w.log.Warn("locker notification failed",
			zap.String("employee_id", rec.EmployeeID.Hex()), zap.Error(err))
		return
	}
	if err := w.lockers.SetNotificationSent(ctx, rec.ID, true); err != nil {
		w.log.Warn("could not record notification flag",
			zap.String("record_id", rec.ID.Hex()), zap.Error(err))
		return
	}
	rec.NotificationSent = true
}
