// internal/app/features/lockers/routes.go
package lockers

import "github.com/go-chi/chi/v5"

// Routes returns the locker API subrouter. It is mounted under
// /api/lockers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/assign", h.ServeAssign)
	r.Post("/release", h.ServeRelease)
	r.Get("/employee/{employeeID}", h.ServeGetByEmployee)

	r.Get("/audit", h.ServeAudit)
	r.Post("/audit/resolve-duplicates", h.ServeResolveDuplicates)
	r.Post("/audit/delete-orphans", h.ServeDeleteOrphans)

	r.Get("/diagnostics", h.ServeDiagnostics)
	r.Post("/diagnostics/{recordID}/clear", h.ServeClearAssignment)

	r.Get("/occupancy", h.ServeOccupancyAll)
	r.Get("/occupancy/{room}", h.ServeOccupancy)

	r.Post("/import", h.ServeImport)

	return r
}
