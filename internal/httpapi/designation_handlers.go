package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

// ListDesignations returns the designation catalog.
//
// @Summary      List designations
// @Tags         Designations
// @Produce      json
// @Success      200 {object} apierror.Envelope
// @Router       /api/v1/designations [get]
func (h *Handlers) ListDesignations(w http.ResponseWriter, r *http.Request) {
	list, err := h.Designations.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}

// GetDesignation returns a single designation by id.
//
// @Summary      Get a designation
// @Tags         Designations
// @Produce      json
// @Param        id path string true "Designation id"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/designations/{id} [get]
func (h *Handlers) GetDesignation(w http.ResponseWriter, r *http.Request) {
	d, err := h.Designations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", d)
}

// CreateDesignation adds a new designation to the catalog.
//
// @Summary      Create a designation
// @Tags         Designations
// @Accept       json
// @Produce      json
// @Param        request body models.CreateDesignationRequest true "New designation"
// @Success      201 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Router       /api/v1/designations [post]
func (h *Handlers) CreateDesignation(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageDesignations(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.CreateDesignationRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	d, err := h.Designations.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditCreate, "designation", d.ID)
	writeOK(w, r, http.StatusCreated, "designation created", d)
}

// UpdateDesignation applies a partial update to a designation.
//
// @Summary      Update a designation
// @Tags         Designations
// @Accept       json
// @Produce      json
// @Param        id path string true "Designation id"
// @Param        request body models.UpdateDesignationRequest true "Fields to update"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/designations/{id} [put]
func (h *Handlers) UpdateDesignation(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageDesignations(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.UpdateDesignationRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	d, err := h.Designations.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "designation", id)
	writeOK(w, r, http.StatusOK, "designation updated", d)
}

// DeleteDesignation removes a designation, refusing while any employee
// still references it.
//
// @Summary      Delete a designation
// @Tags         Designations
// @Produce      json
// @Param        id path string true "Designation id"
// @Success      200 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Router       /api/v1/designations/{id} [delete]
func (h *Handlers) DeleteDesignation(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageDesignations(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Designations.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditDelete, "designation", id)
	writeOK(w, r, http.StatusOK, "designation deleted", nil)
}
