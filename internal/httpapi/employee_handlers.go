package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

// ListEmployees returns every employee record.
//
// @Summary      List employees
// @Tags         Employees
// @Produce      json
// @Success      200 {object} apierror.Envelope
// @Router       /api/v1/employees [get]
func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.Employees.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}

// GetEmployee returns a single employee by id.
//
// @Summary      Get an employee
// @Tags         Employees
// @Produce      json
// @Param        id path string true "Employee id"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/employees/{id} [get]
func (h *Handlers) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Employees.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", emp)
}

// CreateEmployee onboards a new employee, deriving compensation via the
// payroll calculator.
//
// @Summary      Create an employee
// @Tags         Employees
// @Accept       json
// @Produce      json
// @Param        request body models.CreateEmployeeRequest true "New employee"
// @Success      201 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Router       /api/v1/employees [post]
func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageEmployees(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.CreateEmployeeRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	emp, err := h.Employees.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditCreate, "employee", emp.ID)
	writeOK(w, r, http.StatusCreated, "employee created", emp)
}

// UpdateEmployee applies a partial update to an employee.
//
// @Summary      Update an employee
// @Tags         Employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee id"
// @Param        request body models.UpdateEmployeeRequest true "Fields to update"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/employees/{id} [put]
func (h *Handlers) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageEmployees(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.UpdateEmployeeRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	emp, err := h.Employees.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "employee", id)
	writeOK(w, r, http.StatusOK, "employee updated", emp)
}

// ExitEmployee flips an employee's status to INACTIVE.
//
// @Summary      Exit an employee
// @Tags         Employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee id"
// @Param        request body models.ExitEmployeeRequest true "Exit details"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/employees/{id}/exit [put]
func (h *Handlers) ExitEmployee(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageEmployees(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.ExitEmployeeRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	emp, err := h.Employees.Exit(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "employee", id)
	writeOK(w, r, http.StatusOK, "employee exited", emp)
}
