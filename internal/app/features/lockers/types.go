// internal/app/features/lockers/types.go
package lockers

import (
	"github.com/plantdesk/plantdesk/internal/domain/models"
)

// assignRequest is the JSON body for POST /api/lockers/assign.
type assignRequest struct {
	EmployeeID string `json:"employee_id"`
	Room       string `json:"room"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason,omitempty"`
}

// releaseRequest is the JSON body for POST /api/lockers/release.
type releaseRequest struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason,omitempty"`
}

// assignmentResponse wraps the canonical record plus the mirror sync
// outcome. SyncWarning is non-empty when the record was written but one or
// both mirrors stayed stale.
type assignmentResponse struct {
	Record      models.LockerAssignment `json:"record"`
	SyncWarning string                  `json:"sync_warning,omitempty"`
}

// auditResponse is the audit report plus its headline problem count.
type auditResponse struct {
	TotalProblems int `json:"total_problems"`
	Unregistered  int `json:"unregistered_count"`
	Orphans       int `json:"orphan_count"`
	Duplicates    int `json:"duplicate_cluster_count"`

	Report any `json:"report"`
}

// repairResponse reports how many records a corrective action removed.
type repairResponse struct {
	Deleted int64 `json:"deleted"`
}

// errorResponse is the JSON error envelope for the locker API.
type errorResponse struct {
	Error string `json:"error"`
	// Holder is set on duplicate conflicts: the employee currently
	// holding the requested locker.
	Holder string `json:"holder,omitempty"`
}
