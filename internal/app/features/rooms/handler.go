// internal/app/features/rooms/handler.go
package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	audit "github.com/plantdesk/plantdesk/internal/app/store/audit"
	lockerstore "github.com/plantdesk/plantdesk/internal/app/store/lockers"
	roomstore "github.com/plantdesk/plantdesk/internal/app/store/rooms"
	"github.com/plantdesk/plantdesk/internal/app/system/auditlog"
	"github.com/plantdesk/plantdesk/internal/app/system/lockerid"
	"github.com/plantdesk/plantdesk/internal/app/system/timeouts"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the room configuration API.
type Handler struct {
	Rooms   *roomstore.Store
	Lockers *lockerstore.Store
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs the room API handler.
func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Rooms:   roomstore.New(db),
		Lockers: lockerstore.New(db),
		Audit:   auditLog,
		Log:     logger,
	}
}

// roomRequest is the JSON body for create and update.
type roomRequest struct {
	Name             string   `json:"name"`
	InstalledCount   int      `json:"installed_count"`
	ValidIdentifiers []string `json:"valid_identifiers,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// roomResponse wraps the stored config plus soft warnings: problems the
// edit creates for existing assignments (shrunk capacity stranding active
// lockers, identifier-list length not matching the installed count). The
// write goes through regardless; diagnostics lists the stranded records.
type roomResponse struct {
	Room     models.RoomConfig `json:"room"`
	Warnings []string          `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "room not found"})
		return
	}
	if mongo.IsDuplicateKeyError(err) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "room name already in use"})
		return
	}
	h.Log.Error("room request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// ServeList handles GET /api/rooms.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Rooms.List(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ServeGet handles GET /api/rooms/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid room id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rc, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

// ServeCreate handles POST /api/rooms.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	if req.InstalledCount < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "installed_count must not be negative"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rc, err := h.Rooms.Create(ctx, models.RoomConfig{
		Name:             req.Name,
		InstalledCount:   req.InstalledCount,
		ValidIdentifiers: normalizeIdentifiers(req.ValidIdentifiers),
		Notes:            req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.Audit.AdminAction(ctx, audit.EventRoomCreated, nil, map[string]string{
		"room": rc.Name,
	})
	writeJSON(w, http.StatusCreated, roomResponse{
		Room:     rc,
		Warnings: configWarnings(rc, nil),
	})
}

// ServeUpdate handles PUT /api/rooms/{id}. Shrinking the room below its
// active assignments is allowed; the response carries warnings naming the
// now-invalid identifiers instead of rejecting the edit.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid room id"})
		return
	}
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.InstalledCount < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "installed_count must not be negative"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rc, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if req.Name != "" {
		rc.Name = req.Name
	}
	rc.InstalledCount = req.InstalledCount
	rc.ValidIdentifiers = normalizeIdentifiers(req.ValidIdentifiers)
	rc.Notes = req.Notes

	rc, err = h.Rooms.Update(ctx, rc)
	if err != nil {
		h.writeError(w, err)
		return
	}

	active, err := h.Lockers.ListActiveByRoom(ctx, rc.Name)
	if err != nil {
		h.Log.Warn("could not check active assignments after room edit",
			zap.String("room", rc.Name), zap.Error(err))
	}

	h.Audit.AdminAction(ctx, audit.EventRoomUpdated, nil, map[string]string{
		"room": rc.Name,
	})
	writeJSON(w, http.StatusOK, roomResponse{
		Room:     rc,
		Warnings: configWarnings(rc, active),
	})
}

// normalizeIdentifiers folds quote variants out of an explicit identifier
// list, dropping entries that normalize to empty.
func normalizeIdentifiers(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := lockerid.Normalize(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// configWarnings returns the soft problems with a saved config: identifier
// list length not matching the installed count, duplicate identifiers, and
// active assignments the new valid set strands.
func configWarnings(rc models.RoomConfig, active []models.LockerAssignment) []string {
	var warnings []string

	if len(rc.ValidIdentifiers) > 0 {
		if len(rc.ValidIdentifiers) != rc.InstalledCount {
			warnings = append(warnings, fmt.Sprintf(
				"identifier list has %d entries but installed_count is %d",
				len(rc.ValidIdentifiers), rc.InstalledCount))
		}
		seen := make(map[string]bool, len(rc.ValidIdentifiers))
		for _, id := range rc.ValidIdentifiers {
			if seen[id] {
				warnings = append(warnings, fmt.Sprintf("duplicate identifier %q in list", id))
			}
			seen[id] = true
		}
	}

	for _, a := range active {
		if ok, reason := lockerid.Check(rc, a.CurrentIdentifier); !ok {
			warnings = append(warnings, fmt.Sprintf(
				"active assignment %s now invalid: %s", a.CurrentIdentifier, reason))
		}
	}

	return warnings
}
