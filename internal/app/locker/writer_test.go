package locker

import (
	"context"
	"errors"
	"testing"

	employeestore "github.com/plantdesk/plantdesk/internal/app/store/employees"
	lockerstore "github.com/plantdesk/plantdesk/internal/app/store/lockers"
	masterstore "github.com/plantdesk/plantdesk/internal/app/store/masterdb"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"github.com/plantdesk/plantdesk/internal/testutil"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	calls []string
	fail  bool
}

func (n *recordingNotifier) LockerChanged(_ context.Context, e models.Employee, room, identifier string) error {
	n.calls = append(n.calls, e.Code+"/"+room+"/"+identifier)
	if n.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func TestWriterAssignAndMirrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoom(ctx, "Vestuario A", 100)
	emp := f.CreateEmployee(ctx, "E100", "Ana Torres")
	f.CreateMasterEmployee(ctx, emp)

	notifier := &recordingNotifier{}
	w := NewWriter(db, notifier, nil, zap.NewNop())

	rec, warn, err := w.Assign(ctx, emp.ID, "Vestuario A", "12", "test assign")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected sync warning: %v", warn)
	}
	if rec.CurrentIdentifier != "12" || rec.Room != "Vestuario A" {
		t.Fatalf("unexpected record: room=%q id=%q", rec.Room, rec.CurrentIdentifier)
	}
	if len(rec.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(rec.History))
	}
	if rec.History[0].ToIdentifier != "12" || rec.History[0].FromIdentifier != "" {
		t.Fatalf("unexpected history entry: %+v", rec.History[0])
	}
	if rec.AssignedAt == nil {
		t.Fatal("assignedAt not set")
	}

	// Both mirrors should carry the new locker.
	gotEmp, err := employeestore.New(db).GetByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("reload employee: %v", err)
	}
	if gotEmp.LockerRoom != "Vestuario A" || gotEmp.LockerIdentifier != "12" {
		t.Fatalf("primary mirror stale: room=%q id=%q", gotEmp.LockerRoom, gotEmp.LockerIdentifier)
	}
	gotMaster, err := masterstore.New(db).GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("reload master employee: %v", err)
	}
	if gotMaster.LockerRoom != "Vestuario A" || gotMaster.LockerIdentifier != "12" {
		t.Fatalf("master mirror stale: room=%q id=%q", gotMaster.LockerRoom, gotMaster.LockerIdentifier)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	stored, err := lockerstore.New(db).GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("reload record: %v", err)
	}
	if !stored.NotificationSent {
		t.Fatal("notificationSent not recorded after successful delivery")
	}
}

func TestWriterAssignQuotedIdentifier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoom(ctx, "Vestuario A", 50)
	emp := f.CreateEmployee(ctx, "E101", "Borja Ruiz")

	w := NewWriter(db, nil, nil, zap.NewNop())
	rec, _, err := w.Assign(ctx, emp.ID, "Vestuario A", "'7'", "import")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if rec.CurrentIdentifier != "7" {
		t.Fatalf("identifier stored unnormalized: %q", rec.CurrentIdentifier)
	}
}

func TestWriterDuplicateLeavesHolderUntouched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoom(ctx, "Vestuario B", 20)
	alice := f.CreateEmployee(ctx, "E1", "Alice")
	bob := f.CreateEmployee(ctx, "E2", "Bob")

	w := NewWriter(db, nil, nil, zap.NewNop())
	aliceRec, _, err := w.Assign(ctx, alice.ID, "Vestuario B", "5", "first")
	if err != nil {
		t.Fatalf("assign alice: %v", err)
	}

	_, _, err = w.Assign(ctx, bob.ID, "Vestuario B", "5", "second")
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.Holder != alice.ID {
		t.Fatalf("duplicate error names wrong holder: %s", dup.Holder.Hex())
	}

	// Alice's record must be byte-for-byte what it was.
	reloaded, err := lockerstore.New(db).GetByEmployee(ctx, alice.ID)
	if err != nil {
		t.Fatalf("reload alice: %v", err)
	}
	if reloaded.CurrentIdentifier != "5" || len(reloaded.History) != len(aliceRec.History) {
		t.Fatalf("holder record mutated: id=%q history=%d", reloaded.CurrentIdentifier, len(reloaded.History))
	}

	// Bob got no record out of the failed attempt.
	if _, err := lockerstore.New(db).GetByEmployee(ctx, bob.ID); err == nil {
		t.Fatal("failed assignment created a record for bob")
	}
}

func TestWriterReassignAppendsHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoom(ctx, "Vestuario A", 100)
	f.CreateRoom(ctx, "Vestuario B", 100)
	emp := f.CreateEmployee(ctx, "E200", "Carla Gil")

	w := NewWriter(db, nil, nil, zap.NewNop())
	moves := []struct{ room, id string }{
		{"Vestuario A", "1"},
		{"Vestuario A", "2"},
		{"Vestuario B", "2"},
		{"Vestuario B", "9"},
	}
	var rec models.LockerAssignment
	var err error
	for _, m := range moves {
		rec, _, err = w.Assign(ctx, emp.ID, m.room, m.id, "move")
		if err != nil {
			t.Fatalf("assign %s/%s: %v", m.room, m.id, err)
		}
	}
	if len(rec.History) != len(moves) {
		t.Fatalf("expected %d history entries, got %d", len(moves), len(rec.History))
	}
	last := rec.History[len(rec.History)-1]
	if last.FromRoom != "Vestuario B" || last.FromIdentifier != "2" || last.ToIdentifier != "9" {
		t.Fatalf("unexpected last entry: %+v", last)
	}
	for _, h := range rec.History {
		if h.EntryID == "" {
			t.Fatal("history entry without entryID")
		}
	}
}

func TestWriterReleaseIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoom(ctx, "Vestuario A", 100)
	emp := f.CreateEmployee(ctx, "E300", "Dario Vega")

	w := NewWriter(db, nil, nil, zap.NewNop())
	if _, _, err := w.Assign(ctx, emp.ID, "Vestuario A", "3", "assign"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	rec, _, err := w.Release(ctx, emp.ID, "leaver")
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if rec.CurrentIdentifier != "" {
		t.Fatalf("identifier not cleared: %q", rec.CurrentIdentifier)
	}
	if rec.Room != "Vestuario A" {
		t.Fatalf("room preference lost on release: %q", rec.Room)
	}
	if len(rec.History) != 2 {
		t.Fatalf("expected 2 history entries after release, got %d", len(rec.History))
	}

	// Second release changes nothing and adds no history.
	again, _, err := w.Release(ctx, emp.ID, "leaver")
	if err != nil {
		t.Fatalf("second release: %v", err)
	}
	if len(again.History) != 2 {
		t.Fatalf("idempotent release grew history to %d", len(again.History))
	}

	// Releasing an employee with no record at all is a no-op.
	ghost := f.CreateEmployee(ctx, "E999", "Ghost")
	if _, _, err := w.Release(ctx, ghost.ID, "leaver"); err != nil {
		t.Fatalf("release without record: %v", err)
	}
	if _, err := lockerstore.New(db).GetByEmployee(ctx, ghost.ID); err == nil {
		t.Fatal("release created a record")
	}
}

func TestWriterReleaseClearsMirrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoom(ctx, "Vestuario A", 100)
	emp := f.CreateEmployee(ctx, "E310", "Gema Sanz")
	f.CreateMasterEmployee(ctx, emp)

	w := NewWriter(db, nil, nil, zap.NewNop())
	if _, _, err := w.Assign(ctx, emp.ID, "Vestuario A", "8", "assign"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	rec, _, err := w.Release(ctx, emp.ID, "leaver")
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if rec.Room != "Vestuario A" {
		t.Fatalf("room preference lost on release: %q", rec.Room)
	}

	// Mirrors carry empty values for a released locker; the room preference
	// lives only on the assignment record.
	gotEmp, err := employeestore.New(db).GetByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("reload employee: %v", err)
	}
	if gotEmp.LockerRoom != "" || gotEmp.LockerIdentifier != "" {
		t.Fatalf("primary mirror not cleared: room=%q id=%q", gotEmp.LockerRoom, gotEmp.LockerIdentifier)
	}
	gotMaster, err := masterstore.New(db).GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("reload master employee: %v", err)
	}
	if gotMaster.LockerRoom != "" || gotMaster.LockerIdentifier != "" {
		t.Fatalf("master mirror not cleared: room=%q id=%q", gotMaster.LockerRoom, gotMaster.LockerIdentifier)
	}
}

func TestWriterAssignUnknownRoomWithoutLocker(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	emp := f.CreateEmployee(ctx, "E320", "Hugo Lara")

	// Parking a room preference without a locker still requires the room
	// to exist.
	w := NewWriter(db, nil, nil, zap.NewNop())
	if _, _, err := w.Assign(ctx, emp.ID, "No Such Room", "", "park"); !errors.Is(err, ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
	if _, err := lockerstore.New(db).GetByEmployee(ctx, emp.ID); err == nil {
		t.Fatal("rejected write left a record behind")
	}
}

func TestWriterReassignResetsNotificationFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoom(ctx, "Vestuario A", 100)
	emp := f.CreateEmployee(ctx, "E400", "Elena Mora")

	// Failing notifier: the flag must stay false.
	w := NewWriter(db, &recordingNotifier{fail: true}, nil, zap.NewNop())
	rec, _, err := w.Assign(ctx, emp.ID, "Vestuario A", "4", "assign")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	stored, err := lockerstore.New(db).GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.NotificationSent {
		t.Fatal("notificationSent set despite delivery failure")
	}

	// Mark it sent out of band, then reassign: the flag resets.
	if err := lockerstore.New(db).SetNotificationSent(ctx, rec.ID, true); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	w2 := NewWriter(db, nil, nil, zap.NewNop())
	rec2, _, err := w2.Assign(ctx, emp.ID, "Vestuario A", "5", "move")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if rec2.NotificationSent {
		t.Fatal("notificationSent not reset on reassignment")
	}
}

func TestWriterInvalidIdentifierRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateRoomWithIdentifiers(ctx, "Caseta", 3, []string{"A1", "A2", "B1"})
	emp := f.CreateEmployee(ctx, "E500", "Fermin Soto")

	w := NewWriter(db, nil, nil, zap.NewNop())
	if _, _, err := w.Assign(ctx, emp.ID, "Caseta", "Z9", "assign"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
	if _, _, err := w.Assign(ctx, emp.ID, "No Such Room", "1", "assign"); !errors.Is(err, ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
	if _, err := lockerstore.New(db).GetByEmployee(ctx, emp.ID); err == nil {
		t.Fatal("rejected assignment left a record behind")
	}
}
