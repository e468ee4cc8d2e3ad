package httpapi

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HMB-research/open-accounting/internal/email"
	"github.com/HMB-research/open-accounting/internal/models"
)

// notifyAsync fires a notification in the background so a slow or
// unreachable SMTP server never adds latency to the request that triggered
// it. Failures are logged, never surfaced to the caller.
func (h *Handlers) notifyAsync(what string, send func(ctx context.Context) error) {
	if h.Email == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Error().Err(err).Str("notification", what).Msg("failed to send notification email")
		}
	}()
}

func (h *Handlers) notifyLeaveSubmitted(lr *models.LeaveRequest) {
	h.notifyAsync("leave_submitted", func(ctx context.Context) error {
		employee, recipient := h.leaveNotificationTarget(ctx, lr, false)
		if recipient == "" {
			return nil
		}
		_, err := h.Email.NotifyLeaveSubmitted(ctx, lr.ID, recipient, "", &email.TemplateData{
			EmployeeName: employee,
			LeaveType:    lr.LeaveTypeID,
			StartDate:    lr.StartDate.Format("2006-01-02"),
			EndDate:      lr.EndDate.Format("2006-01-02"),
			Reason:       lr.Reason,
		})
		return err
	})
}

func (h *Handlers) notifyLeaveApproved(lr *models.LeaveRequest, stage string) {
	h.notifyAsync("leave_approved", func(ctx context.Context) error {
		employeeName, recipient := h.leaveNotificationTarget(ctx, lr, true)
		if recipient == "" {
			return nil
		}
		_, err := h.Email.NotifyLeaveApproved(ctx, lr.ID, recipient, employeeName, &email.TemplateData{
			EmployeeName:  employeeName,
			LeaveType:     lr.LeaveTypeID,
			StartDate:     lr.StartDate.Format("2006-01-02"),
			EndDate:       lr.EndDate.Format("2006-01-02"),
			ApprovalStage: stage,
		})
		return err
	})
}

func (h *Handlers) notifyLeaveRejected(lr *models.LeaveRequest) {
	h.notifyAsync("leave_rejected", func(ctx context.Context) error {
		employeeName, recipient := h.leaveNotificationTarget(ctx, lr, true)
		if recipient == "" {
			return nil
		}
		_, err := h.Email.NotifyLeaveRejected(ctx, lr.ID, recipient, employeeName, &email.TemplateData{
			EmployeeName: employeeName,
			LeaveType:    lr.LeaveTypeID,
			StartDate:    lr.StartDate.Format("2006-01-02"),
			EndDate:      lr.EndDate.Format("2006-01-02"),
			Reason:       lr.Rejection.Reason,
		})
		return err
	})
}

// leaveNotificationTarget resolves who should be emailed about lr: the
// requesting employee once a decision has been made (toEmployee), or their
// official email is used as a fallback recipient while the request is still
// pending manager review (no manager-lookup surface exists in this domain).
func (h *Handlers) leaveNotificationTarget(ctx context.Context, lr *models.LeaveRequest, toEmployee bool) (name, recipient string) {
	_ = toEmployee
	emp, err := h.Employees.Get(ctx, lr.EmployeeID)
	if err != nil || emp == nil {
		return "", ""
	}
	return emp.FullName(), emp.OfficialEmail
}

func (h *Handlers) notifyPayRunGenerated(run *models.PayRun, recipient string) {
	if recipient == "" {
		return
	}
	h.notifyAsync("payrun_generated", func(ctx context.Context) error {
		_, err := h.Email.NotifyPayRunGenerated(ctx, run.ID, recipient, "", &email.TemplateData{
			Period:      run.Period.String(),
			LineCount:   len(run.LineItems),
			TotalNetPay: run.TotalNet.StringFixed(2),
		})
		return err
	})
}

func (h *Handlers) notifyAdvanceRecorded(adv *models.Advance) {
	h.notifyAsync("advance_recorded", func(ctx context.Context) error {
		emp, err := h.Employees.Get(ctx, adv.EmployeeID)
		if err != nil || emp == nil || emp.OfficialEmail == "" {
			return nil
		}
		_, err = h.Email.NotifyAdvanceRecorded(ctx, adv.ID, emp.OfficialEmail, emp.FullName(), &email.TemplateData{
			EmployeeName: emp.FullName(),
			Amount:       adv.PaidAmount.StringFixed(2),
			Installments: 1,
			StartDate:    adv.DeductionPeriod.String(),
		})
		return err
	})
}
