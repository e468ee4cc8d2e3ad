package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

// CreateAdvance records a new salary advance.
//
// @Summary      Create a salary advance
// @Tags         Advances
// @Accept       json
// @Produce      json
// @Param        request body models.CreateAdvanceRequest true "New advance"
// @Success      201 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Router       /api/v1/advances [post]
func (h *Handlers) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanApproveAdvance(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.CreateAdvanceRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	adv, err := h.Advances.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditCreate, "advance", adv.ID)
	h.notifyAdvanceRecorded(adv)
	writeOK(w, r, http.StatusCreated, "advance created", adv)
}

// GetAdvance returns a single advance by id.
//
// @Summary      Get a salary advance
// @Tags         Advances
// @Produce      json
// @Param        id path string true "Advance id"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/advances/{id} [get]
func (h *Handlers) GetAdvance(w http.ResponseWriter, r *http.Request) {
	adv, err := h.Advances.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", adv)
}

// ListAdvancesByEmployee lists every advance filed by an employee.
//
// @Summary      List an employee's salary advances
// @Tags         Advances
// @Produce      json
// @Param        employeeID path string true "Employee id"
// @Success      200 {object} apierror.Envelope
// @Router       /api/v1/advances/employee/{employeeID} [get]
func (h *Handlers) ListAdvancesByEmployee(w http.ResponseWriter, r *http.Request) {
	list, err := h.Advances.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}
