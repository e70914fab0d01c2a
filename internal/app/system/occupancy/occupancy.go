// Package occupancy derives per-room locker statistics from the room
// configuration and the current assignment records. It is a pure read-side
// projection: no state, recomputed on every call.
package occupancy

import (
	"math"

	"github.com/plantdesk/plantdesk/internal/app/system/lockerid"
	"github.com/plantdesk/plantdesk/internal/domain/models"
)

// Stats summarizes one room.
//
// Assigned counts only active assignments whose identifier passes the same
// validity check the diagnostics use, so garbage identifiers never inflate
// the occupancy figure; they are reported in OutOfRangeCount instead.
type Stats struct {
	Room            string  `json:"room"`
	Installed       int     `json:"installed"`
	Assigned        int     `json:"assigned"`
	Free            int     `json:"free"`
	OccupancyPct    float64 `json:"occupancy_pct"`
	OutOfRangeCount int     `json:"out_of_range_count"`
}

// Project computes the occupancy stats for one room over the full set of
// assignment records. Records for other rooms are ignored.
func Project(room models.RoomConfig, assignments []models.LockerAssignment) Stats {
	st := Stats{Room: room.Name, Installed: room.InstalledCount}

	for _, a := range assignments {
		if !a.Active() || a.Room != room.Name {
			continue
		}
		if ok, _ := lockerid.Check(room, a.CurrentIdentifier); ok {
			st.Assigned++
		} else {
			st.OutOfRangeCount++
		}
	}

	st.Free = st.Installed - st.Assigned
	if st.Free < 0 {
		st.Free = 0
	}
	if st.Installed > 0 {
		st.OccupancyPct = math.Round(float64(st.Assigned) / float64(st.Installed) * 100)
	}
	return st
}
