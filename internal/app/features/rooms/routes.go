// internal/app/features/rooms/routes.go
package rooms

import "github.com/go-chi/chi/v5"

// Routes returns the room API subrouter. It is mounted under /api/rooms.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.ServeUpdate)

	return r
}
