// Package httpapi wires every domain service into the versioned JSON HTTP
// API (§6): request decoding, the standard success/error envelope, role
// gating, and audit recording around each mutating call.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HMB-research/open-accounting/internal/advance"
	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/attendance"
	"github.com/HMB-research/open-accounting/internal/audit"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/designation"
	"github.com/HMB-research/open-accounting/internal/email"
	"github.com/HMB-research/open-accounting/internal/employee"
	"github.com/HMB-research/open-accounting/internal/identity"
	"github.com/HMB-research/open-accounting/internal/leave"
	"github.com/HMB-research/open-accounting/internal/loan"
	"github.com/HMB-research/open-accounting/internal/middleware"
	"github.com/HMB-research/open-accounting/internal/models"
	"github.com/HMB-research/open-accounting/internal/payroll"
	"github.com/HMB-research/open-accounting/internal/pdf"
)

// Handlers aggregates every domain service the API surface dispatches to.
type Handlers struct {
	Employees    *employee.Service
	Designations *designation.Service
	Attendance   *attendance.Service
	Advances     *advance.Service
	Loans        *loan.Service
	Leaves       *leave.Service
	PayRuns      *payroll.Generator
	Identity     *identity.Service
	Audit        *audit.Recorder
	AuditLog     audit.Repository
	Tokens       *auth.TokenService

	// Email and Payslips are optional: a nil value disables the
	// notification/export side-effects below the handlers that reference
	// them (GeneratePayRun's outcome, leave decisions, ExportPayslip)
	// without disabling the API surface itself.
	Email    *email.Service
	Payslips *pdf.Service
}

func correlationID(ctx context.Context) string {
	return middleware.CorrelationIDFromContext(ctx)
}

func decodeJSON(r *http.Request, v interface{}) *apierror.Error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierror.New(apierror.InvalidInput, "request body is not valid JSON")
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := apierror.As(err)
	if !ok {
		apiErr = apierror.Wrap(err)
	}
	apierror.WriteJSON(w, correlationID(r.Context()), apiErr)
}

func writeOK(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	apierror.WriteSuccess(w, correlationID(r.Context()), status, message, data)
}

// claimsFrom extracts the authenticated request's claims. Handlers mounted
// behind Authenticate can assume this always succeeds; it is still checked
// defensively since a handler could in principle be wired up unauthenticated
// by mistake.
func claimsFrom(r *http.Request) (*auth.Claims, bool) {
	return auth.GetClaims(r.Context())
}

// recordAudit enqueues a best-effort audit entry for a mutating handler
// (§4.7). Called after the mutation has already succeeded; failures to
// enqueue are never surfaced to the caller.
func (h *Handlers) recordAudit(r *http.Request, action models.AuditAction, entityKind, entityID string) {
	actor := ""
	if claims, ok := claimsFrom(r); ok {
		actor = claims.Username
	}
	h.Audit.Record(models.AuditEntry{
		ActorUsername: actor,
		Action:        action,
		EntityKind:    entityKind,
		EntityID:      entityID,
		RemoteIP:      audit.RemoteAddr(r),
		UserAgent:     r.UserAgent(),
	})
}

// employeeIDForActor resolves the employee record, if any, linked to the
// authenticated user. Used by ownership checks on leave routes ("owner or
// higher"), since bearer claims carry only username and roles.
func (h *Handlers) employeeIDForActor(ctx context.Context, username string) string {
	u, err := h.Identity.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return ""
	}
	return u.EmployeeID
}
