// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"strconv"

	"github.com/plantdesk/plantdesk/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Locker controls logging for locker events (assign, release, repair,
	// import). Values: "all" (MongoDB + zap), "db", "log", "off".
	Locker string
	// Admin controls logging for admin events (employee/room CRUD).
	// Same values as Locker.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and to
// structured logs (via zap), routed per category by Config.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) modeFor(category string) string {
	switch category {
	case audit.CategoryLocker:
		return l.config.Locker
	case audit.CategoryAdmin:
		return l.config.Admin
	default:
		return "all"
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.EmployeeID != nil {
		fields = append(fields, zap.String("employee_id", event.EmployeeID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.Room != "" {
		fields = append(fields, zap.String("room", event.Room))
	}
	if event.Identifier != "" {
		fields = append(fields, zap.String("identifier", event.Identifier))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records one event per the configured routing.
// If the logger is nil, this is a no-op (allows tests to use nil audit
// logger). A Mongo write failure is logged and swallowed; the triggering
// action never fails because its audit trail could not be written.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	mode := l.modeFor(event.Category)
	if mode == "off" {
		return
	}
	if mode == "all" || mode == "log" {
		l.logToZap(event)
	}
	if mode == "all" || mode == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Locker events ---

// LockerAssigned logs a successful assignment, or a release when the
// identifier is empty.
func (l *Logger) LockerAssigned(ctx context.Context, employeeID primitive.ObjectID, room, identifier, reason string) {
	eventType := audit.EventLockerAssigned
	if identifier == "" {
		eventType = audit.EventLockerReleased
	}
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryLocker,
		EventType:  eventType,
		EmployeeID: &employeeID,
		Room:       room,
		Identifier: identifier,
		Success:    true,
		Details:    map[string]string{"reason": reason},
	})
}

// MirrorSyncIncomplete logs a partial mirror synchronization after a
// successful canonical write.
func (l *Logger) MirrorSyncIncomplete(ctx context.Context, employeeID primitive.ObjectID, room, identifier, failure string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryLocker,
		EventType:     audit.EventMirrorSyncIncomplete,
		EmployeeID:    &employeeID,
		Room:          room,
		Identifier:    identifier,
		Success:       false,
		FailureReason: failure,
	})
}

// RepairApplied logs an audit-engine corrective action and how many
// records it touched.
func (l *Logger) RepairApplied(ctx context.Context, eventType string, count int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLocker,
		EventType: eventType,
		Success:   true,
		Details:   map[string]string{"count": strconv.Itoa(count)},
	})
}

// --- Admin events ---

// AdminAction logs an employee or room CRUD action.
func (l *Logger) AdminAction(ctx context.Context, eventType string, actorID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		Success:   true,
		Details:   details,
	})
}
