// internal/app/features/employees/handler.go
package employees

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plantdesk/plantdesk/internal/app/locker"
	audit "github.com/plantdesk/plantdesk/internal/app/store/audit"
	employeestore "github.com/plantdesk/plantdesk/internal/app/store/employees"
	masterstore "github.com/plantdesk/plantdesk/internal/app/store/masterdb"
	"github.com/plantdesk/plantdesk/internal/app/system/auditlog"
	"github.com/plantdesk/plantdesk/internal/app/system/timeouts"
	"github.com/plantdesk/plantdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the employee directory API. Creates and updates flow into
// the master projection as well, so both mirror datasets always have a row
// for every directory employee.
type Handler struct {
	Employees *employeestore.Store
	Master    *masterstore.Store
	Writer    *locker.Writer
	Audit     *auditlog.Logger
	Log       *zap.Logger
}

// NewHandler constructs the employee API handler.
func NewHandler(db *mongo.Database, writer *locker.Writer, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Employees: employeestore.New(db),
		Master:    masterstore.New(db),
		Writer:    writer,
		Audit:     auditLog,
		Log:       logger,
	}
}

// employeeRequest is the JSON body for create and update.
type employeeRequest struct {
	Code       string `json:"code"`
	FullName   string `json:"full_name"`
	Department string `json:"department,omitempty"`
	Shift      string `json:"shift,omitempty"`
	Status     string `json:"status,omitempty"`
	Email      string `json:"email,omitempty"`
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
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "employee not found"})
		return
	}
	if mongo.IsDuplicateKeyError(err) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "employee code already in use"})
		return
	}
	h.Log.Error("employee request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// ServeList handles GET /api/employees.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Employees.List(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ServeGet handles GET /api/employees/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid employee id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// ServeCreate handles POST /api/employees. The new employee is mirrored
// into the master projection in the same request.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Code == "" || req.FullName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "code and full_name are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	e, err := h.Employees.Create(ctx, models.Employee{
		Code:       req.Code,
		FullName:   req.FullName,
		Department: req.Department,
		Shift:      req.Shift,
		Status:     req.Status,
		Email:      req.Email,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.Master.Upsert(ctx, models.MasterEmployee{
		EmployeeID: e.ID,
		Code:       e.Code,
		FullName:   e.FullName,
	}); err != nil {
		// Mirror failure is not a request failure; the sweep repairs it.
		h.Log.Warn("master projection write failed on create",
			zap.String("employee_id", e.ID.Hex()), zap.Error(err))
	}

	h.Audit.AdminAction(ctx, audit.EventEmployeeCreated, nil, map[string]string{
		"employee_id": e.ID.Hex(),
		"code":        e.Code,
	})
	writeJSON(w, http.StatusCreated, e)
}

// ServeUpdate handles PUT /api/employees/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid employee id"})
		return
	}
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if req.Code != "" {
		e.Code = req.Code
	}
	if req.FullName != "" {
		e.FullName = req.FullName
	}
	e.Department = req.Department
	e.Shift = req.Shift
	e.Status = req.Status
	e.Email = req.Email

	e, err = h.Employees.Update(ctx, e)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.Master.Upsert(ctx, models.MasterEmployee{
		EmployeeID: e.ID,
		Code:       e.Code,
		FullName:   e.FullName,
	}); err != nil {
		h.Log.Warn("master projection write failed on update",
			zap.String("employee_id", e.ID.Hex()), zap.Error(err))
	}

	h.Audit.AdminAction(ctx, audit.EventEmployeeUpdated, nil, map[string]string{
		"employee_id": e.ID.Hex(),
	})
	writeJSON(w, http.StatusOK, e)
}

// ServeDelete handles DELETE /api/employees/{id}. The locker is released
// first so the audit trail records it, then the directory row and master
// row are removed. The assignment record stays behind and surfaces as an
// orphan in the next audit pass, where delete-orphans removes it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid employee id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, _, err := h.Writer.Release(ctx, id, "employee deleted"); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Employees.Delete(ctx, id); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Master.Delete(ctx, id); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Warn("master projection delete failed",
			zap.String("employee_id", id.Hex()), zap.Error(err))
	}

	h.Audit.AdminAction(ctx, audit.EventEmployeeDeleted, nil, map[string]string{
		"employee_id": id.Hex(),
	})
	w.WriteHeader(http.StatusNoContent)
}
