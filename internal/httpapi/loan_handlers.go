package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

// CreateLoan opens a new installment loan.
//
// @Summary      Create an installment loan
// @Tags         Loans
// @Accept       json
// @Produce      json
// @Param        request body models.CreateLoanRequest true "New loan"
// @Success      201 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Router       /api/v1/loans [post]
func (h *Handlers) CreateLoan(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanApproveLoan(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.CreateLoanRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	l, err := h.Loans.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditCreate, "loan", l.ID)
	writeOK(w, r, http.StatusCreated, "loan created", l)
}

// GetLoan returns a single loan by id.
//
// @Summary      Get an installment loan
// @Tags         Loans
// @Produce      json
// @Param        id path string true "Loan id"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/loans/{id} [get]
func (h *Handlers) GetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.Loans.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", l)
}

// ListLoansByEmployee lists every loan held by an employee.
//
// @Summary      List an employee's loans
// @Tags         Loans
// @Produce      json
// @Param        employeeID path string true "Employee id"
// @Success      200 {object} apierror.Envelope
// @Router       /api/v1/loans/employee/{employeeID} [get]
func (h *Handlers) ListLoansByEmployee(w http.ResponseWriter, r *http.Request) {
	list, err := h.Loans.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}

// CancelLoan cancels a loan before it has been fully repaid.
//
// @Summary      Cancel an installment loan
// @Tags         Loans
// @Produce      json
// @Param        id path string true "Loan id"
// @Success      200 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Router       /api/v1/loans/{id} [delete]
func (h *Handlers) CancelLoan(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanApproveLoan(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	id := chi.URLParam(r, "id")
	l, err := h.Loans.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditDelete, "loan", id)
	writeOK(w, r, http.StatusOK, "loan cancelled", l)
}
