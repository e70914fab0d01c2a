// internal/app/features/employees/routes.go
package employees

import "github.com/go-chi/chi/v5"

// Routes returns the employee API subrouter. It is mounted under
// /api/employees.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)

	return r
}
