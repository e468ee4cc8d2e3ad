package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

// ListAuditLogs returns audit entries matching the given filters (§4.7).
//
// @Summary      List audit log entries
// @Tags         Admin
// @Produce      json
// @Param        actor query string false "Actor username"
// @Param        action query string false "Action (CREATE/UPDATE/DELETE/LOGIN/LOGOUT/ACCESS_DENIED)"
// @Param        entity_kind query string false "Entity kind"
// @Param        from query string false "RFC3339 range start"
// @Param        to query string false "RFC3339 range end"
// @Param        limit query int false "Max rows (default 100)"
// @Param        offset query int false "Row offset"
// @Success      200 {object} apierror.Envelope
// @Failure      403 {object} apierror.Envelope
// @Router       /api/v1/admin/audit-logs [get]
func (h *Handlers) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanViewAuditLog(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}

	q := r.URL.Query()
	filter := models.AuditLogFilter{
		ActorUsername: q.Get("actor"),
		Action:        models.AuditAction(q.Get("action")),
		EntityKind:    q.Get("entity_kind"),
	}
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	entries, err := h.AuditLog.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, apierror.Wrap(err))
		return
	}
	writeOK(w, r, http.StatusOK, "ok", entries)
}

// ListUsers lists every user account.
//
// @Summary      List user accounts
// @Tags         Admin
// @Produce      json
// @Success      200 {object} apierror.Envelope
// @Failure      403 {object} apierror.Envelope
// @Router       /api/v1/admin/users [get]
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageUsers(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	list, err := h.Identity.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}

type setRolesRequest struct {
	Roles []models.Role `json:"roles"`
}

// SetUserRoles overwrites a user's role set.
//
// @Summary      Set a user's roles
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "User id"
// @Param        request body setRolesRequest true "New role set"
// @Success      200 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Router       /api/v1/admin/users/{id}/roles [put]
func (h *Handlers) SetUserRoles(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageUsers(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req setRolesRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	u, err := h.Identity.SetRoles(r.Context(), id, req.Roles)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "user", id)
	writeOK(w, r, http.StatusOK, "roles updated", u)
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetUserEnabled enables or disables a user account.
//
// @Summary      Enable or disable a user account
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "User id"
// @Param        request body setEnabledRequest true "Desired enabled state"
// @Success      200 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Router       /api/v1/admin/users/{id}/enabled [put]
func (h *Handlers) SetUserEnabled(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanManageUsers(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req setEnabledRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	id := chi.URLParam(r, "id")
	u, err := h.Identity.SetEnabled(r.Context(), id, req.Enabled)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "user", id)
	writeOK(w, r, http.StatusOK, "account state updated", u)
}
