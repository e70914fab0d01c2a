// internal/app/locker/audit.go
package locker

import (
	"sort"
	"time"

	"github.com/plantdesk/plantdesk/internal/app/system/lockerid"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DuplicateCluster is a set of two or more active assignments sharing the
// same room and normalized identifier. Members are sorted most recent
// first, in the order ResolveDuplicates keeps them.
type DuplicateCluster struct {
	Room       string                    `json:"room"`
	Identifier string                    `json:"identifier"`
	Members    []models.LockerAssignment `json:"members"`
}

// Report is the outcome of one consistency pass over the full dataset.
// The three findings are disjoint; a record appears in at most one.
type Report struct {
	// Unregistered are employees with no assignment record at all.
	Unregistered []models.Employee `json:"unregistered"`
	// Orphans are assignment records whose employee no longer exists.
	Orphans []models.LockerAssignment `json:"orphans"`
	// DuplicateClusters lists rooms where one physical locker is held by
	// several employees at once.
	DuplicateClusters []DuplicateCluster `json:"duplicate_clusters"`
}

// TotalProblems is the headline metric: unregistered employees plus orphan
// records plus duplicate clusters. A cluster counts once regardless of how
// many members it has.
func (r Report) TotalProblems() int {
	return len(r.Unregistered) + len(r.Orphans) + len(r.DuplicateClusters)
}

// BuildReport runs the pure audit pass over the loaded employees and
// assignment records. It never mutates anything; corrective actions are
// separate, explicit calls.
func BuildReport(employees []models.Employee, records []models.LockerAssignment) Report {
	var rep Report

	byEmployee := make(map[primitive.ObjectID]bool, len(records))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = true
	}
	known := make(map[primitive.ObjectID]bool, len(employees))
	for _, e := range employees {
		known[e.ID] = true
		if !byEmployee[e.ID] {
			rep.Unregistered = append(rep.Unregistered, e)
		}
	}

	type key struct{ room, id string }
	groups := make(map[key][]models.LockerAssignment)
	for _, rec := range records {
		if !known[rec.EmployeeID] {
			rep.Orphans = append(rep.Orphans, rec)
			continue
		}
		if !rec.Active() {
			continue
		}
		k := key{rec.Room, lockerid.Normalize(rec.CurrentIdentifier)}
		groups[k] = append(groups[k], rec)
	}

	for k, members := range groups {
		if len(members) < 2 {
			continue
		}
		sortMembersNewestFirst(members)
		rep.DuplicateClusters = append(rep.DuplicateClusters, DuplicateCluster{
			Room:       k.room,
			Identifier: k.id,
			Members:    members,
		})
	}
	sort.Slice(rep.DuplicateClusters, func(i, j int) bool {
		a, b := rep.DuplicateClusters[i], rep.DuplicateClusters[j]
		if a.Room != b.Room {
			return a.Room < b.Room
		}
		return a.Identifier < b.Identifier
	})
	sort.Slice(rep.Orphans, func(i, j int) bool {
		return rep.Orphans[i].ID.Hex() < rep.Orphans[j].ID.Hex()
	})

	return rep
}

// assignedTime is the ordering key for duplicate resolution: AssignedAt
// when present, otherwise the record creation time.
func assignedTime(a models.LockerAssignment) time.Time {
	if a.AssignedAt != nil {
		return *a.AssignedAt
	}
	return a.CreatedAt
}

// sortMembersNewestFirst orders cluster members by assignment time
// descending. Equal timestamps break on the record id, higher id first, so
// resolution is deterministic.
func sortMembersNewestFirst(members []models.LockerAssignment) {
	sort.Slice(members, func(i, j int) bool {
		ti, tj := assignedTime(members[i]), assignedTime(members[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return members[i].ID.Hex() > members[j].ID.Hex()
	})
}

// DuplicateDeletions returns the record ids that resolving the clusters
// would delete: every member except the most recent of each cluster.
// Running the audit again after these deletions yields no clusters, so the
// corrective action is idempotent.
func DuplicateDeletions(clusters []DuplicateCluster) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, c := range clusters {
		if len(c.Members) < 2 {
			continue
		}
		members := make([]models.LockerAssignment, len(c.Members))
		copy(members, c.Members)
		sortMembersNewestFirst(members)
		for _, rec := range members[1:] {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// OrphanDeletions returns the ids of all orphaned records in the report.
func OrphanDeletions(rep Report) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(rep.Orphans))
	for _, rec := range rep.Orphans {
		ids = append(ids, rec.ID)
	}
	return ids
}
