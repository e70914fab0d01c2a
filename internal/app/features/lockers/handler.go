// internal/app/features/lockers/handler.go
package lockers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/plantdesk/plantdesk/internal/app/locker"
	lockerstore "github.com/plantdesk/plantdesk/internal/app/store/lockers"
	"github.com/plantdesk/plantdesk/internal/app/system/importutil"
	"github.com/plantdesk/plantdesk/internal/app/system/occupancycache"
	"github.com/plantdesk/plantdesk/internal/app/system/timeouts"
	"github.com/plantdesk/plantdesk/internal/app/system/xlsxutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the locker assignment and reconciliation API.
type Handler struct {
	Writer   *locker.Writer
	Service  *locker.Service
	Importer *locker.Importer
	Lockers  *lockerstore.Store
	Cache    *occupancycache.Cache
	Log      *zap.Logger
}

// NewHandler constructs the locker API handler.
func NewHandler(writer *locker.Writer, service *locker.Service, importer *locker.Importer, lockers *lockerstore.Store, cache *occupancycache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		Writer:   writer,
		Service:  service,
		Importer: importer,
		Lockers:  lockers,
		Cache:    cache,
		Log:      logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses:
//   - duplicate locker: 409, naming the current holder
//   - identifier not in configuration: 422
//   - unknown room or missing record: 404
//   - anything else: 500
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var dup *locker.DuplicateError
	switch {
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:  dup.Error(),
			Holder: dup.Holder.Hex(),
		})
	case errors.Is(err, locker.ErrInvalidIdentifier):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, locker.ErrUnknownRoom), errors.Is(err, mongo.ErrNoDocuments):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.Log.Error("locker request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// ServeAssign handles POST /api/lockers/assign.
func (h *Handler) ServeAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	employeeID, err := primitive.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid employee_id"})
		return
	}
	if req.Room == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "room is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rec, warn, err := h.Writer.Assign(ctx, employeeID, req.Room, req.Identifier, reasonOr(req.Reason, "manual assignment"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.invalidateOccupancy(ctx, rec.Room)

	resp := assignmentResponse{Record: rec}
	if warn != nil {
		resp.SyncWarning = warn.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeRelease handles POST /api/lockers/release.
func (h *Handler) ServeRelease(w http.ResponseWriter, r *http.Request) {
	var req releaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	employeeID, err := primitive.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid employee_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rec, warn, err := h.Writer.Release(ctx, employeeID, reasonOr(req.Reason, "manual release"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.invalidateOccupancy(ctx, rec.Room)

	resp := assignmentResponse{Record: rec}
	if warn != nil {
		resp.SyncWarning = warn.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeGetByEmployee handles GET /api/lockers/employee/{employeeID}.
func (h *Handler) ServeGetByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "employeeID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid employee id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, err := h.Lockers.GetByEmployee(ctx, employeeID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ServeAudit handles GET /api/lockers/audit.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rep, err := h.Service.Report(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, auditResponse{
		TotalProblems: rep.TotalProblems(),
		Unregistered:  len(rep.Unregistered),
		Orphans:       len(rep.Orphans),
		Duplicates:    len(rep.DuplicateClusters),
		Report:        rep,
	})
}

// ServeResolveDuplicates handles POST /api/lockers/audit/resolve-duplicates.
func (h *Handler) ServeResolveDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deleted, err := h.Service.ResolveDuplicates(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairResponse{Deleted: deleted})
}

// ServeDeleteOrphans handles POST /api/lockers/audit/delete-orphans.
func (h *Handler) ServeDeleteOrphans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deleted, err := h.Service.DeleteOrphans(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairResponse{Deleted: deleted})
}

// ServeDiagnostics handles GET /api/lockers/diagnostics.
func (h *Handler) ServeDiagnostics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	findings, err := h.Service.Diagnostics(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(findings),
		"findings": findings,
	})
}

// ServeClearAssignment handles POST /api/lockers/diagnostics/{recordID}/clear.
func (h *Handler) ServeClearAssignment(w http.ResponseWriter, r *http.Request) {
	recordID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "recordID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Service.ClearAssignment(ctx, recordID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeOccupancy handles GET /api/lockers/occupancy/{room}. The cached
// snapshot is served when present; otherwise the stats are computed from
// MongoDB and cached.
func (h *Handler) ServeOccupancy(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "room")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if stats, ok, err := h.Cache.Get(ctx, room); err == nil && ok {
		writeJSON(w, http.StatusOK, stats)
		return
	} else if err != nil {
		h.Log.Warn("occupancy cache read failed", zap.Error(err))
	}

	stats, err := h.Service.Occupancy(ctx, room)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Cache.Set(ctx, stats); err != nil {
		h.Log.Warn("occupancy cache write failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, stats)
}

// ServeOccupancyAll handles GET /api/lockers/occupancy.
func (h *Handler) ServeOccupancyAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Service.OccupancyAll(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Cache.SetAll(ctx, all); err != nil {
		h.Log.Warn("occupancy cache write failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, all)
}

// ServeImport handles POST /api/lockers/import: a multipart upload with a
// "file" part holding a CSV or XLSX assignment sheet. The whole file is
// pre-scanned before any write; shape problems come back as row errors
// alongside the rows that did apply.
func (h *Handler) ServeImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, importutil.MaxUploadSize)
	if err := r.ParseMultipartForm(importutil.MaxUploadSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "upload too large or malformed"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file part"})
		return
	}
	defer file.Close()

	var (
		rows    []importutil.LockerRow
		rowErrs []importutil.RowError
	)
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx":
		rows, rowErrs, err = xlsxutil.ReadLockerRows(file)
	default:
		rows, rowErrs, err = importutil.PreScanLockerCSV(file)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable file: " + err.Error()})
		return
	}
	if len(rows) > importutil.MaxRows {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "too many rows"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	report := h.Importer.Run(ctx, rows, rowErrs, "bulk import: "+header.Filename)
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) invalidateOccupancy(ctx context.Context, room string) {
	if room == "" {
		return
	}
	if err := h.Cache.Invalidate(ctx, room); err != nil {
		h.Log.Warn("occupancy cache invalidate failed",
			zap.String("room", room), zap.Error(err))
	}
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
