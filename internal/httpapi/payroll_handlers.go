package httpapi

import (
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
	"github.com/HMB-research/open-accounting/internal/pdf"
)

// GeneratePayRun runs the monthly pay-run algorithm for the given period.
//
// @Summary      Generate a pay-run
// @Tags         PayRuns
// @Accept       json
// @Produce      json
// @Param        request body models.Period true "Pay period"
// @Success      201 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Failure      422 {object} apierror.Envelope
// @Router       /api/v1/payruns/generate [post]
func (h *Handlers) GeneratePayRun(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanGeneratePayRun(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var period models.Period
	if derr := decodeJSON(r, &period); derr != nil {
		writeError(w, r, derr)
		return
	}
	run, err := h.PayRuns.Generate(r.Context(), period, claims.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditCreate, "pay_run", run.ID)
	h.notifyPayRunGenerated(run, os.Getenv("PAYROLL_NOTIFICATION_EMAIL"))
	writeOK(w, r, http.StatusCreated, "pay-run generated", run)
}

// GetPayRun returns a single pay-run by id.
//
// @Summary      Get a pay-run
// @Tags         PayRuns
// @Produce      json
// @Param        id path string true "Pay-run id"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/payruns/{id} [get]
func (h *Handlers) GetPayRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.PayRuns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", run)
}

// ListPayRuns lists every pay-run generated in a given year.
//
// @Summary      List pay-runs for a year
// @Tags         PayRuns
// @Produce      json
// @Param        year query int true "Calendar year"
// @Success      200 {object} apierror.Envelope
// @Router       /api/v1/payruns [get]
func (h *Handlers) ListPayRuns(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, r, apierror.New(apierror.InvalidInput, "year query parameter is required"))
		return
	}
	list, serr := h.PayRuns.ListByYear(r.Context(), year)
	if serr != nil {
		writeError(w, r, serr)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}

// ExportPayRun returns a pay-run's full line-item detail, the payload a
// client renders into a payslip export.
//
// @Summary      Export a pay-run's line items
// @Tags         PayRuns
// @Produce      json
// @Param        id path string true "Pay-run id"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/payruns/{id}/export [get]
func (h *Handlers) ExportPayRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.PayRuns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", run.LineItems)
}

// ExportPayslip renders one employee's line item from a pay-run as a PDF
// payslip.
//
// @Summary      Download an employee's payslip for a pay-run
// @Tags         PayRuns
// @Produce      application/pdf
// @Param        id path string true "Pay-run id"
// @Param        employeeID path string true "Employee id"
// @Success      200 {file} byte
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/payruns/{id}/employees/{employeeID}/payslip [get]
func (h *Handlers) ExportPayslip(w http.ResponseWriter, r *http.Request) {
	if h.Payslips == nil {
		writeError(w, r, apierror.New(apierror.InvalidInput, "payslip export is not enabled"))
		return
	}

	run, err := h.PayRuns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	var line *models.PayRunLineItem
	for i := range run.LineItems {
		if run.LineItems[i].EmployeeID == employeeID {
			line = &run.LineItems[i]
			break
		}
	}
	if line == nil {
		writeError(w, r, apierror.New(apierror.NotFound, "no line item for this employee in this pay-run"))
		return
	}

	emp, err := h.Employees.Get(r.Context(), employeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := h.Payslips.GeneratePayslipPDF(emp, run.Period, *line, pdf.DefaultSettings())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payslip-"+run.Period.String()+"-"+emp.PublicID+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
