package httpapi

import (
	"net/http"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/audit"
	"github.com/HMB-research/open-accounting/internal/models"
)

// Register creates a new user account.
//
// @Summary      Register a new user account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body models.RegisterRequest true "Registration details"
// @Success      201 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Router       /api/v1/auth/register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	u, err := h.Identity.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.Record(models.AuditEntry{ActorUsername: u.Username, Action: models.AuditCreate, EntityKind: "user", EntityID: u.ID,
		RemoteIP: audit.RemoteAddr(r), UserAgent: r.UserAgent()})
	writeOK(w, r, http.StatusCreated, "account created", u)
}

// Login authenticates a user and issues an access/refresh token pair.
//
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body models.LoginRequest true "Credentials"
// @Success      200 {object} apierror.Envelope
// @Failure      401 {object} apierror.Envelope
// @Router       /api/v1/auth/login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	resp, err := h.Identity.Login(r.Context(), &req)
	if err != nil {
		_ = h.Audit.RecordAuthEvent(r.Context(), req.Username, models.AuditAccessDenied, audit.RemoteAddr(r), r.UserAgent())
		writeError(w, r, err)
		return
	}
	_ = h.Audit.RecordAuthEvent(r.Context(), req.Username, models.AuditLogin, audit.RemoteAddr(r), r.UserAgent())
	writeOK(w, r, http.StatusOK, "logged in", resp)
}

// RefreshToken exchanges a refresh token for a new access/refresh pair.
//
// @Summary      Refresh an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body models.RefreshRequest true "Refresh token"
// @Success      200 {object} apierror.Envelope
// @Failure      401 {object} apierror.Envelope
// @Router       /api/v1/auth/refresh [post]
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	resp, err := h.Identity.Refresh(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "token refreshed", resp)
}

// GetCurrentUser returns the authenticated caller's profile.
//
// @Summary      Get the authenticated user
// @Tags         Auth
// @Produce      json
// @Success      200 {object} apierror.Envelope
// @Failure      401 {object} apierror.Envelope
// @Router       /api/v1/auth/me [get]
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, r, apierror.New(apierror.Unauthenticated, "authentication required"))
		return
	}
	u, err := h.Identity.GetByUsername(r.Context(), claims.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", u)
}
