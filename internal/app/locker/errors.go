// internal/app/locker/errors.go
package locker

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidIdentifier means the target locker id is not recognized by the
// room's configuration. Recoverable: the caller re-prompts with a valid
// choice.
var ErrInvalidIdentifier = errors.New("locker identifier not in room configuration")

// ErrUnknownRoom means the named room has no configuration record.
var ErrUnknownRoom = errors.New("unknown locker room")

// DuplicateError means the target locker is already actively held by
// another employee. Holder names the current holder so the caller can
// present "already assigned to X".
type DuplicateError struct {
	Room       string
	Identifier string
	Holder     primitive.ObjectID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("locker %s/%s already assigned to employee %s",
		e.Room, e.Identifier, e.Holder.Hex())
}

// SyncWarning reports that the canonical assignment record was written but
// one or both mirror writes failed. The record is authoritative; the
// mirrors stay stale until the reconciliation sweep or a later write
// repairs them. It is surfaced as a warning, never as a request failure.
type SyncWarning struct {
	PrimaryMirrorErr error // employees collection
	MasterMirrorErr  error // master database projection
}

func (w *SyncWarning) Error() string {
	switch {
	case w.PrimaryMirrorErr != nil && w.MasterMirrorErr != nil:
		return "both locker mirrors failed to sync"
	case w.PrimaryMirrorErr != nil:
		return "primary employee locker mirror failed to sync"
	default:
		return "master database locker mirror failed to sync"
	}
}
