// Package leave implements the two-stage leave approval workflow: request
// creation, manager/admin approval, rejection, cancellation, and the
// leave-balance ledger those transitions maintain (§4.5).
package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HMB-research/open-accounting/internal/models"
)

func daysDecimal(days int) models.Decimal {
	return models.NewDecimal(decimal.NewFromInt(int64(days)))
}

// UUIDGenerator generates entity ids; satisfied by google/uuid in
// production and a deterministic stub in tests.
type UUIDGenerator interface {
	New() string
}

// DefaultUUIDGenerator uses google/uuid.
type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) New() string { return uuid.New().String() }

// Service implements the leave state machine described in §4.5.
type Service struct {
	repo  Repository
	uuid  UUIDGenerator
	locks *keyedMutex
	now   func() time.Time
}

// NewService builds a Service backed by repo.
func NewService(repo Repository, gen UUIDGenerator) *Service {
	return &Service{repo: repo, uuid: gen, locks: newKeyedMutex(), now: time.Now}
}

// Create opens a new PENDING leave request. Refuses a past start date, an
// end date before the start date, an out-of-range reason length, or any
// overlap with an existing ADMIN_APPROVED leave for the employee.
func (s *Service) Create(ctx context.Context, requestedBy string, req *models.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if len(req.Reason) < 10 || len(req.Reason) > 1000 {
		return nil, ErrReasonLength
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidInterval
	}
	today := truncateToDay(s.now())
	if truncateToDay(req.StartDate).Before(today) {
		return nil, ErrInvalidInterval
	}

	unlock := s.locks.lockFor(req.EmployeeID)
	defer unlock()

	overlapping, err := s.repo.ListApprovedOverlapping(ctx, req.EmployeeID,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrOverlap
	}

	leaveType, err := s.repo.GetLeaveType(ctx, req.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	days := calendarDays(req.StartDate, req.EndDate)

	if leaveType.IsPaid {
		year := req.StartDate.Year()
		balance, err := s.repo.GetBalance(ctx, req.EmployeeID, req.LeaveTypeID, year)
		if err == nil && balance != nil {
			remaining := balance.RemainingDays.Sub(daysDecimal(days))
			if remaining.IsNegative() {
				return nil, ErrInsufficientBalance
			}
			balance.PendingDays = balance.PendingDays.Add(daysDecimal(days))
			balance.RemainingDays = remaining
			balance.UpdatedAt = s.now()
			if err := s.repo.UpdateBalance(ctx, balance); err != nil {
				return nil, err
			}
		}
	}

	now := s.now()
	lr := &models.LeaveRequest{
		Base:               models.Base{ID: s.uuid.New(), CreatedAt: now, UpdatedAt: now},
		EmployeeID:         req.EmployeeID,
		LeaveTypeID:        req.LeaveTypeID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Days:               days,
		Reason:             req.Reason,
		Status:             models.LeavePending,
		ReportingManagerID: requestedBy,
	}
	if err := s.repo.Create(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

// Get returns a single leave request by id.
func (s *Service) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	return s.repo.Get(ctx, id)
}

// ListByEmployee returns every leave request filed by employeeID.
func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveRequest, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

// ApproveAsManager moves PENDING → MANAGER_APPROVED.
func (s *Service) ApproveAsManager(ctx context.Context, id, actor, comments string) (*models.LeaveRequest, error) {
	if len(comments) < 5 || len(comments) > 500 {
		return nil, ErrCommentsLength
	}
	return s.transition(ctx, id, func(lr *models.LeaveRequest) error {
		if lr.Status != models.LeavePending {
			return ErrIllegalTransition
		}
		now := s.now()
		lr.Status = models.LeaveManagerApproved
		lr.ManagerApproval = models.ApprovalStep{Actor: actor, At: &now, Comments: comments}
		return nil
	})
}

// ApproveAsAdmin moves MANAGER_APPROVED → ADMIN_APPROVED.
func (s *Service) ApproveAsAdmin(ctx context.Context, id, actor, comments string) (*models.LeaveRequest, error) {
	if len(comments) < 5 || len(comments) > 500 {
		return nil, ErrCommentsLength
	}
	return s.transition(ctx, id, func(lr *models.LeaveRequest) error {
		if lr.Status != models.LeaveManagerApproved {
			return ErrIllegalTransition
		}
		now := s.now()
		lr.Status = models.LeaveAdminApproved
		lr.AdminApproval = models.ApprovalStep{Actor: actor, At: &now, Comments: comments}
		return s.settleBalanceOnApproval(ctx, lr)
	})
}

// Reject moves PENDING or MANAGER_APPROVED → REJECTED. MANAGER or ADMIN may
// reject a PENDING request; only ADMIN may reject a MANAGER_APPROVED one.
func (s *Service) Reject(ctx context.Context, id, actor, reason string, actorIsAdmin bool) (*models.LeaveRequest, error) {
	return s.transition(ctx, id, func(lr *models.LeaveRequest) error {
		switch lr.Status {
		case models.LeavePending:
		case models.LeaveManagerApproved:
			if !actorIsAdmin {
				return ErrIllegalTransition
			}
		default:
			return ErrIllegalTransition
		}
		now := s.now()
		lr.Status = models.LeaveRejected
		lr.Rejection = models.RejectionStep{Actor: actor, At: &now, Reason: reason}
		return s.releasePendingBalance(ctx, lr)
	})
}

// Cancel moves PENDING or MANAGER_APPROVED → CANCELLED. It makes no role
// or ownership check of its own; the HTTP handler admits the owning
// employee or any MANAGER, HR, or ADMIN.
func (s *Service) Cancel(ctx context.Context, id string) (*models.LeaveRequest, error) {
	return s.transition(ctx, id, func(lr *models.LeaveRequest) error {
		switch lr.Status {
		case models.LeavePending, models.LeaveManagerApproved:
		default:
			return ErrIllegalTransition
		}
		lr.Status = models.LeaveCancelled
		return s.releasePendingBalance(ctx, lr)
	})
}

// transition loads the leave request under its employee's lock, applies
// mutate, persists, and returns the updated record. Mutate returning an
// error aborts with no write.
func (s *Service) transition(ctx context.Context, id string, mutate func(*models.LeaveRequest) error) (*models.LeaveRequest, error) {
	lr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lockFor(lr.EmployeeID)
	defer unlock()

	// Re-fetch inside the lock: the copy above only resolved which
	// employee to lock on.
	lr, err = s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(lr); err != nil {
		return nil, err
	}
	lr.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *Service) settleBalanceOnApproval(ctx context.Context, lr *models.LeaveRequest) error {
	leaveType, err := s.repo.GetLeaveType(ctx, lr.LeaveTypeID)
	if err != nil || !leaveType.IsPaid {
		return nil
	}
	balance, err := s.repo.GetBalance(ctx, lr.EmployeeID, lr.LeaveTypeID, lr.StartDate.Year())
	if err != nil {
		return nil
	}
	days := daysDecimal(lr.Days)
	balance.PendingDays = balance.PendingDays.Sub(days)
	balance.UsedDays = balance.UsedDays.Add(days)
	balance.UpdatedAt = s.now()
	return s.repo.UpdateBalance(ctx, balance)
}

func (s *Service) releasePendingBalance(ctx context.Context, lr *models.LeaveRequest) error {
	leaveType, err := s.repo.GetLeaveType(ctx, lr.LeaveTypeID)
	if err != nil || !leaveType.IsPaid {
		return nil
	}
	balance, err := s.repo.GetBalance(ctx, lr.EmployeeID, lr.LeaveTypeID, lr.StartDate.Year())
	if err != nil {
		return nil
	}
	days := daysDecimal(lr.Days)
	balance.PendingDays = balance.PendingDays.Sub(days)
	balance.RemainingDays = balance.RemainingDays.Add(days)
	balance.UpdatedAt = s.now()
	return s.repo.UpdateBalance(ctx, balance)
}

// CarryOverYear rolls every leave-balance row for fromYear into a fresh
// (fromYear+1) row, capping the carried amount at the leave type's
// MaxCarryoverDays. It is idempotent: a balance that already exists for the
// target year is left untouched, so the scheduler's daily job can call this
// safely every time it fires.
func (s *Service) CarryOverYear(ctx context.Context, fromYear int) (int, error) {
	balances, err := s.repo.ListBalancesByYear(ctx, fromYear)
	if err != nil {
		return 0, err
	}

	toYear := fromYear + 1
	carried := 0
	for _, b := range balances {
		if existing, err := s.repo.GetBalance(ctx, b.EmployeeID, b.LeaveTypeID, toYear); err == nil && existing != nil {
			continue
		}

		leaveType, err := s.repo.GetLeaveType(ctx, b.LeaveTypeID)
		if err != nil {
			continue
		}

		carryover := b.RemainingDays.Decimal
		maxCarryover := leaveType.MaxCarryoverDays.Decimal
		if carryover.GreaterThan(maxCarryover) {
			carryover = maxCarryover
		}
		if carryover.IsNegative() {
			carryover = decimal.Zero
		}

		entitled := leaveType.DefaultDaysPerYear
		now := s.now()
		next := &models.LeaveBalance{
			Base:          models.Base{ID: s.uuid.New(), CreatedAt: now, UpdatedAt: now},
			EmployeeID:    b.EmployeeID,
			LeaveTypeID:   b.LeaveTypeID,
			Year:          toYear,
			EntitledDays:  entitled,
			CarryoverDays: models.NewDecimal(carryover),
			RemainingDays: models.NewDecimal(entitled.Decimal.Add(carryover)),
		}
		if err := s.repo.CreateBalance(ctx, next); err != nil {
			return carried, err
		}
		carried++
	}
	return carried, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDays counts the inclusive number of calendar days in [start, end].
func calendarDays(start, end time.Time) int {
	return int(truncateToDay(end).Sub(truncateToDay(start)).Hours()/24) + 1
}
