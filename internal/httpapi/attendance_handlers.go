package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

func parsePeriod(r *http.Request) (models.Period, *apierror.Error) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return models.Period{}, apierror.New(apierror.InvalidInput, "month query parameter must be 1-12")
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 {
		return models.Period{}, apierror.New(apierror.InvalidInput, "year query parameter is required")
	}
	return models.Period{Month: month, Year: year}, nil
}

// UpsertAttendance creates or replaces an employee's attendance summary for
// a calendar month.
//
// @Summary      Upsert an attendance record
// @Tags         Attendance
// @Accept       json
// @Produce      json
// @Param        request body models.UpsertAttendanceRequest true "Attendance summary"
// @Success      200 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope
// @Router       /api/v1/attendance [post]
func (h *Handlers) UpsertAttendance(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanRecordAttendance(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	var req models.UpsertAttendanceRequest
	if derr := decodeJSON(r, &req); derr != nil {
		writeError(w, r, derr)
		return
	}
	rec, err := h.Attendance.Upsert(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.recordAudit(r, models.AuditUpdate, "attendance", rec.ID)
	writeOK(w, r, http.StatusOK, "attendance recorded", rec)
}

// GetAttendance returns one employee's attendance record for a period given
// by the month/year query parameters.
//
// @Summary      Get an employee's attendance record
// @Tags         Attendance
// @Produce      json
// @Param        employeeID path string true "Employee id"
// @Param        month query int true "Month (1-12)"
// @Param        year query int true "Year"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /api/v1/attendance/{employeeID} [get]
func (h *Handlers) GetAttendance(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanRecordAttendance(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	period, perr := parsePeriod(r)
	if perr != nil {
		writeError(w, r, perr)
		return
	}
	rec, err := h.Attendance.Get(r.Context(), chi.URLParam(r, "employeeID"), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", rec)
}

// ListAttendanceByPeriod lists every attendance record for a calendar month.
//
// @Summary      List attendance records for a period
// @Tags         Attendance
// @Produce      json
// @Param        month query int true "Month (1-12)"
// @Param        year query int true "Year"
// @Success      200 {object} apierror.Envelope
// @Router       /api/v1/attendance [get]
func (h *Handlers) ListAttendanceByPeriod(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok || !auth.CanRecordAttendance(claims) {
		writeError(w, r, apierror.New(apierror.Unauthorized, "you do not have permission to perform this action"))
		return
	}
	period, perr := parsePeriod(r)
	if perr != nil {
		writeError(w, r, perr)
		return
	}
	list, err := h.Attendance.ListByPeriod(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "ok", list)
}
