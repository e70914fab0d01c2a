// internal/app/system/workers/reconcile.go
package workers

import (
	"context"
	"sync"
	"time"

	employeestore "github.com/plantdesk/plantdesk/internal/app/store/employees"
	lockerstore "github.com/plantdesk/plantdesk/internal/app/store/lockers"
	masterstore "github.com/plantdesk/plantdesk/internal/app/store/masterdb"
	roomstore "github.com/plantdesk/plantdesk/internal/app/store/rooms"
	"github.com/plantdesk/plantdesk/internal/app/system/lockerid"
	"github.com/plantdesk/plantdesk/internal/app/system/occupancy"
	"github.com/plantdesk/plantdesk/internal/app/system/occupancycache"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Reconcile is a background worker that periodically replays the locker
// assignment records into the two employee mirrors and refreshes the
// cached occupancy snapshots.
//
// The assignment record is authoritative: a mirror that disagrees with it
// is rewritten, whichever write came last. Mirrors of employees with no
// assignment record are cleared.
type Reconcile struct {
	rooms     *roomstore.Store
	lockers   *lockerstore.Store
	employees *employeestore.Store
	master    *masterstore.Store
	cache     *occupancycache.Cache
	log       *zap.Logger
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewReconcile creates a new reconciliation worker. cache may be nil.
func NewReconcile(db *mongo.Database, cache *occupancycache.Cache, logger *zap.Logger, interval time.Duration) *Reconcile {
	return &Reconcile{
		rooms:     roomstore.New(db),
		lockers:   lockerstore.New(db),
		employees: employeestore.New(db),
		master:    masterstore.New(db),
		cache:     cache,
		log:       logger,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background reconciliation loop.
func (w *Reconcile) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("locker reconciliation worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *Reconcile) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("locker reconciliation worker stopped")
}

func (w *Reconcile) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one reconciliation pass. It is exported so the diagnostics
// endpoint can trigger a pass on demand.
func (w *Reconcile) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	repaired, err := w.repairMirrors(ctx)
	if err != nil {
		w.log.Error("mirror reconciliation failed", zap.Error(err))
		return
	}
	if repaired > 0 {
		w.log.Info("repaired stale locker mirrors", zap.Int("count", repaired))
	}

	if err := w.refreshOccupancy(ctx); err != nil {
		w.log.Error("occupancy snapshot refresh failed", zap.Error(err))
	}
}

// repairMirrors pushes every assignment record into both mirrors where
// they disagree, and clears mirror fields that have no backing record.
func (w *Reconcile) repairMirrors(ctx context.Context) (int, error) {
	records, err := w.lockers.List(ctx)
	if err != nil {
		return 0, err
	}
	byEmployee := make(map[string]models.LockerAssignment, len(records))
	for _, rec := range records {
		byEmployee[rec.EmployeeID.Hex()] = rec
	}

	repaired := 0

	employees, err := w.employees.List(ctx)
	if err != nil {
		return repaired, err
	}
	for _, e := range employees {
		room, id := wantMirror(byEmployee[e.ID.Hex()])
		if e.LockerRoom == room && lockerid.Normalize(e.LockerIdentifier) == id {
			continue
		}
		if err := w.employees.SetLockerFields(ctx, e.ID, room, id); err != nil {
			w.log.Warn("primary mirror repair failed",
				zap.String("employee_id", e.ID.Hex()), zap.Error(err))
			continue
		}
		repaired++
	}

	masters, err := w.master.List(ctx)
	if err != nil {
		return repaired, err
	}
	for _, m := range masters {
		room, id := wantMirror(byEmployee[m.EmployeeID.Hex()])
		if m.LockerRoom == room && lockerid.Normalize(m.LockerIdentifier) == id {
			continue
		}
		if err := w.master.SetLockerFields(ctx, m.EmployeeID, room, id); err != nil {
			w.log.Warn("master mirror repair failed",
				zap.String("employee_id", m.EmployeeID.Hex()), zap.Error(err))
			continue
		}
		repaired++
	}

	return repaired, nil
}

// wantMirror returns the mirror values a record implies. The zero record
// (no assignment) clears both fields.
func wantMirror(rec models.LockerAssignment) (room, identifier string) {
	if !rec.Active() {
		return "", ""
	}
	return rec.Room, lockerid.Normalize(rec.CurrentIdentifier)
}

func (w *Reconcile) refreshOccupancy(ctx context.Context) error {
	rooms, err := w.rooms.List(ctx)
	if err != nil {
		return err
	}
	snapshots := make([]occupancy.Stats, 0, len(rooms))
	for _, rc := range rooms {
		assignments, err := w.lockers.ListByRoom(ctx, rc.Name)
		if err != nil {
			return err
		}
		snapshots = append(snapshots, occupancy.Project(rc, assignments))
	}
	return w.cache.SetAll(ctx, snapshots)
}
