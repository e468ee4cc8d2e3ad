package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

// CreateLeave files a new leave request.
//
// @Summary      File a leave request
// @Tags         Leave
// @Accept       json
// @Produce      json
// @Param        request body models.CreateLeaveRequest true "New leave request"
// @Success      201 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Router       /api/v1/leaves [post]
func (h *Handlers) CreateLeave(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, r, apierror.New(apierror.Unauthenticated, "authentication required"))
		return
	}
	var req models.CreateLeaveRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	lr, err := h.Leaves.Create(r.Context(), claims.Username, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditCreate, "leave_request", lr.ID)
	h.notifyLeaveSubmitted(lr)
	writeOK(w, r, http.StatusCreated, "leave request filed", lr)
}

// canAccessLeave reports whether the authenticated claims may view lr: its
// owner, or a MANAGER/HR/ADMIN.
func (h *Handlers) canAccessLeave(r *http.Request, claims *auth.Claims, lr *models.LeaveRequest) bool {
	if claims.HasRole(models.RoleManager) || claims.HasRole(models.RoleHR) || claims.HasRole(models.RoleAdmin) {
		return true
	}
	return h.employeeIDForActor(r.Context(), claims.Username) == lr.EmployeeID
}

// rejectSelfApproval refuses an approval attempt where the actor is the
// leave request's own employee, no matter what role they hold.
func (h *Handlers) rejectSelfApproval(r *http.Request, claims *auth.Claims, lr *models.LeaveRequest) bool {
	return auth.CanApproveOwnLeave(claims, lr, h.employeeIDForActor(r.Context(), claims.Username))
}

// GetLeave returns a single leave request by id.
//
// @Summary      Get a leave request
// @Tags         Leave
// @Produce      json
// @Param        id path string true "Leave request id"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/leaves/{id} [get]
func (h *Handlers) GetLeave(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, r, apierror.New(apierror.Unauthenticated, "authentication required"))
		return
	}
	lr, err := h.Leaves.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !h.canAccessLeave(r, claims, lr) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to view this leave request"))
		return
	}
	writeOK(w, r, http.StatusOK, "ok", lr)
}

// ListLeavesByEmployee lists every leave request filed by an employee.
//
// @Summary      List an employee's leave requests
// @Tags         Leave
// @Produce      json
// @Param        employeeID path string true "Employee id"
// @Success      200 {object} apierror.Envelope
// @Router       /api/v1/leaves/employee/{employeeID} [get]
func (h *Handlers) ListLeavesByEmployee(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, r, apierror.New(apierror.Unauthenticated, "authentication required"))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	isPrivileged := claims.HasRole(models.RoleManager) || claims.HasRole(models.RoleHR) || claims.HasRole(models.RoleAdmin)
	if !isPrivileged && h.employeeIDForActor(r.Context(), claims.Username) != employeeID {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to view these leave requests"))
		return
	}
	list, err := h.Leaves.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}

// ManagerApproveLeave moves a leave request from PENDING to MANAGER_APPROVED.
//
// @Summary      Approve a leave request as manager
// @Tags         Leave
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request id"
// @Param        request body models.ApproveLeaveRequest true "Approval comments"
// @Success      200 {object} apierror.Envelope
// @Failure      422 {object} apierror.Envelope
// @Router       /api/v1/leaves/{id}/manager-approve [put]
func (h *Handlers) ManagerApproveLeave(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanApproveLeaveAsManager(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.ApproveLeaveRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	existing, err := h.Leaves.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.rejectSelfApproval(r, claims, existing) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you may not approve your own leave request"))
		return
	}
	lr, err := h.Leaves.ApproveAsManager(r.Context(), id, claims.Username, req.Comments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "leave_request", id)
	h.notifyLeaveApproved(lr, "manager")
	writeOK(w, r, http.StatusOK, "leave request approved", lr)
}

// AdminApproveLeave moves a leave request from MANAGER_APPROVED to
// ADMIN_APPROVED.
//
// @Summary      Approve a leave request as admin
// @Tags         Leave
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request id"
// @Param        request body models.ApproveLeaveRequest true "Approval comments"
// @Success      200 {object} apierror.Envelope
// @Failure      422 {object} apierror.Envelope
// @Router       /api/v1/leaves/{id}/admin-approve [put]
func (h *Handlers) AdminApproveLeave(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanApproveLeaveAsAdmin(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.ApproveLeaveRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	existing, err := h.Leaves.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.rejectSelfApproval(r, claims, existing) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you may not approve your own leave request"))
		return
	}
	lr, err := h.Leaves.ApproveAsAdmin(r.Context(), id, claims.Username, req.Comments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "leave_request", id)
	h.notifyLeaveApproved(lr, "final")
	writeOK(w, r, http.StatusOK, "leave request approved", lr)
}

// RejectLeave rejects a PENDING or MANAGER_APPROVED leave request.
//
// @Summary      Reject a leave request
// @Tags         Leave
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request id"
// @Param        request body models.RejectLeaveRequest true "Rejection reason"
// @Success      200 {object} apierror.Envelope
// @Failure      422 {object} apierror.Envelope
// @Router       /api/v1/leaves/{id}/reject [put]
func (h *Handlers) RejectLeave(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !(claims.HasRole(models.RoleManager) || claims.HasRole(models.RoleAdmin)) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.RejectLeaveRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	lr, err := h.Leaves.Reject(r.Context(), id, claims.Username, req.Reason, claims.HasRole(models.RoleAdmin))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "leave_request", id)
	h.notifyLeaveRejected(lr)
	writeOK(w, r, http.StatusOK, "leave request rejected", lr)
}

// CancelLeave cancels a PENDING or MANAGER_APPROVED leave request. Only the
// owning employee or a caller holding MANAGER, HR, or ADMIN may cancel.
//
// @Summary      Cancel a leave request
// @Tags         Leave
// @Produce      json
// @Param        id path string true "Leave request id"
// @Success      200 {object} apierror.Envelope
// @Failure      422 {object} apierror.Envelope
// @Router       /api/v1/leaves/{id}/cancel [put]
func (h *Handlers) CancelLeave(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, r, apierror.New(apierror.Unauthenticated, "authentication required"))
		return
	}
	id := chi.URLParam(r, "id")
	lr, err := h.Leaves.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !h.canAccessLeave(r, claims, lr) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to cancel this leave request"))
		return
	}
	lr, err = h.Leaves.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "leave_request", id)
	writeOK(w, r, http.StatusOK, "leave request cancelled", lr)
}
