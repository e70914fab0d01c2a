// internal/app/locker/diagnostics.go
package locker

import (
	"sort"

	"github.com/plantdesk/plantdesk/internal/app/system/lockerid"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reason for assignments pointing at a room with no configuration record.
const ReasonRoomNotConfigured = "room not configured"

// Finding flags one active assignment whose identifier is not valid for
// its room, independent of duplication. The corrective action is to clear
// the assignment (a release), returning the employee to the
// needs-assignment pool.
type Finding struct {
	RecordID   primitive.ObjectID `json:"record_id"`
	EmployeeID primitive.ObjectID `json:"employee_id"`
	Room       string             `json:"room"`
	Identifier string             `json:"identifier"`
	Reason     string             `json:"reason"`
}

// Diagnose runs the pure identifier-validity pass: every active assignment
// is checked against its room's valid identifier set (explicit list, or
// the derived 1..installed numbering). One finding per problem record.
func Diagnose(rooms []models.RoomConfig, records []models.LockerAssignment) []Finding {
	byName := make(map[string]models.RoomConfig, len(rooms))
	for _, rc := range rooms {
		byName[rc.Name] = rc
	}

	var findings []Finding
	for _, rec := range records {
		if !rec.Active() {
			continue
		}
		id := lockerid.Normalize(rec.CurrentIdentifier)

		rc, ok := byName[rec.Room]
		if !ok {
			findings = append(findings, Finding{
				RecordID:   rec.ID,
				EmployeeID: rec.EmployeeID,
				Room:       rec.Room,
				Identifier: id,
				Reason:     ReasonRoomNotConfigured,
			})
			continue
		}

		if valid, reason := lockerid.Check(rc, id); !valid {
			findings = append(findings, Finding{
				RecordID:   rec.ID,
				EmployeeID: rec.EmployeeID,
				Room:       rec.Room,
				Identifier: id,
				Reason:     reason,
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Room != findings[j].Room {
			return findings[i].Room < findings[j].Room
		}
		return findings[i].Identifier < findings[j].Identifier
	})
	return findings
}
