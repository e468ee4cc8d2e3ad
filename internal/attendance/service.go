package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

// UUIDGenerator issues an attendance record's primary key.
type UUIDGenerator interface {
	NewUUID() string
}

// DefaultUUIDGenerator issues random v4 UUIDs.
type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) NewUUID() string { return uuid.NewString() }

// Service implements the attendance upsert and the read path the payroll
// generator calls through AttendanceSource.
type Service struct {
	repo Repository
	uuid UUIDGenerator
	now  func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, gen UUIDGenerator) *Service {
	return &Service{repo: repo, uuid: gen, now: time.Now}
}

// Upsert validates the day-count invariants (§3) and creates or replaces the
// (employee, month, year) record. Re-issuing the same upsert is idempotent;
// an upsert against an already pay-run-consumed period is refused.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := validateDayCounts(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, req.EmployeeID, req.Period)
	if err != nil {
		return nil, apierror.Wrap(err)
	}
	if existing != nil && existing.ConsumedByPayRun {
		return nil, ErrConsumed
	}

	now := s.now()
	id := s.uuid.NewUUID()
	createdAt := now
	if existing != nil {
		id = existing.ID
		createdAt = existing.CreatedAt
	}

	a := &models.AttendanceRecord{
		Base:             models.Base{ID: id, CreatedAt: createdAt, UpdatedAt: now},
		EmployeeID:       req.EmployeeID,
		Period:           req.Period,
		TotalWorkingDays: req.TotalWorkingDays,
		PresentDays:      req.PresentDays,
		AbsentDays:       req.AbsentDays,
		PaidLeaveDays:    req.PaidLeaveDays,
		UnpaidLeaveDays:  req.UnpaidLeaveDays,
		Remarks:          req.Remarks,
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, apierror.Wrap(err)
	}
	return a, nil
}

func validateDayCounts(req *models.UpsertAttendanceRequest) error {
	for _, d := range []int{req.TotalWorkingDays, req.PresentDays, req.AbsentDays, req.PaidLeaveDays, req.UnpaidLeaveDays} {
		if d < 0 || d > 31 {
			return ErrDayCountRange
		}
	}
	if req.PresentDays+req.AbsentDays+req.PaidLeaveDays+req.UnpaidLeaveDays != req.TotalWorkingDays {
		return ErrDaySumMismatch
	}
	return nil
}

// Get satisfies payroll.AttendanceSource.
func (s *Service) Get(ctx context.Context, employeeID string, period models.Period) (*models.AttendanceRecord, error) {
	return s.repo.Get(ctx, employeeID, period)
}

// MarkConsumed satisfies payroll.AttendanceSource.
func (s *Service) MarkConsumed(ctx context.Context, employeeID string, period models.Period) error {
	return s.repo.MarkConsumed(ctx, employeeID, period)
}

// ListByPeriod lists every attendance record for a (month, year), for the
// pre-pay-run "who's missing attendance" check.
func (s *Service) ListByPeriod(ctx context.Context, period models.Period) ([]models.AttendanceRecord, error) {
	return s.repo.ListByPeriod(ctx, period)
}
