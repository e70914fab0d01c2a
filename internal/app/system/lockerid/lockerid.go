// Package lockerid canonicalizes and checks locker identifiers.
//
// Locker numbers arrive from forms, CSV exports, and spreadsheet pastes,
// which wrap them in straight or typographic quotes ("12", “12”, '12').
// Every identifier comparison in the locker subsystem goes through
// Normalize; raw strings are never compared directly.
package lockerid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/plantdesk/plantdesk/internal/domain/models"
)

// quoteRunes is the fixed set of quote characters stripped by Normalize.
const quoteRunes = "'\"`´‘’‛“”„‚«»"

// Normalize strips quote characters and surrounding whitespace from a raw
// locker identifier. It is pure, total, and idempotent.
func Normalize(raw string) string {
	s := strings.Map(func(r rune) rune {
		if strings.ContainsRune(quoteRunes, r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(s)
}

// ValidSet returns the set of valid identifiers for a room. When the room
// has an explicit list it is returned normalized; otherwise the sequential
// numbering "1".."InstalledCount" is derived. The implicit set is never
// stored, so there is a single source of truth for it.
func ValidSet(room models.RoomConfig) []string {
	if len(room.ValidIdentifiers) > 0 {
		out := make([]string, 0, len(room.ValidIdentifiers))
		for _, id := range room.ValidIdentifiers {
			out = append(out, Normalize(id))
		}
		return out
	}
	out := make([]string, 0, room.InstalledCount)
	for i := 1; i <= room.InstalledCount; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// Diagnostic reasons produced by Check.
const (
	ReasonNotInConfiguration = "ID not in configuration"
)

// Check reports whether a normalized identifier is a plausible locker in
// the room. For rooms with an explicit identifier list, the identifier must
// be a member. For rooms with implicit sequential numbering, an identifier
// that parses as an integer must fall in 1..InstalledCount; above capacity
// the reason reads "number N > installed capacity".
//
// The empty identifier means "no locker" and always passes.
func Check(room models.RoomConfig, identifier string) (ok bool, reason string) {
	id := Normalize(identifier)
	if id == "" {
		return true, ""
	}

	if len(room.ValidIdentifiers) > 0 {
		for _, valid := range room.ValidIdentifiers {
			if Normalize(valid) == id {
				return true, ""
			}
		}
		return false, ReasonNotInConfiguration
	}

	if n, err := strconv.Atoi(id); err == nil {
		if n < 1 {
			// Sequential numbering starts at 1; "0" and negatives are never
			// derivable from ValidSet.
			return false, ReasonNotInConfiguration
		}
		if n > room.InstalledCount {
			return false, fmt.Sprintf("number %d > installed capacity", n)
		}
	}
	return true, ""
}
