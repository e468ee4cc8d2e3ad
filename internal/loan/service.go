package loan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

// UUIDGenerator issues a loan's primary key.
type UUIDGenerator interface {
	NewUUID() string
}

// DefaultUUIDGenerator issues random v4 UUIDs.
type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) NewUUID() string { return uuid.NewString() }

// Service implements loan creation, lookup, and cancellation, plus the
// pay-run-time EMI advance the payroll generator calls through LoanSource.
type Service struct {
	repo Repository
	uuid UUIDGenerator
	now  func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, gen UUIDGenerator) *Service {
	return &Service{repo: repo, uuid: gen, now: time.Now}
}

// Create derives the EMI schedule and persists a new ACTIVE loan.
func (s *Service) Create(ctx context.Context, req *models.CreateLoanRequest) (*models.Loan, error) {
	emi, total, schedule, err := BuildSchedule(req.Principal.Decimal, req.AnnualInterestRate.Decimal, req.EMICount, req.Start)
	if err != nil {
		return nil, err
	}

	now := s.now()
	l := &models.Loan{
		Base:               models.Base{ID: s.uuid.NewUUID(), CreatedAt: now, UpdatedAt: now},
		EmployeeID:         req.EmployeeID,
		Principal:          req.Principal,
		AnnualInterestRate: req.AnnualInterestRate,
		EMICount:           req.EMICount,
		EMIAmount:          models.NewDecimal(emi),
		TotalAmount:        models.NewDecimal(total),
		Start:              req.Start,
		PaidEMICount:       0,
		RemainingBalance:   models.NewDecimal(total),
		Status:             models.LoanActive,
		Schedule:           schedule,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, apierror.Wrap(err)
	}
	return l, nil
}

// Get fetches a loan by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Loan, error) {
	return s.repo.Get(ctx, id)
}

// ListByEmployee lists all of an employee's loans, active or not.
func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]models.Loan, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

// Cancel freezes RemainingBalance and marks the loan CANCELLED, excluding
// it from future pay-runs (§4.3's open question (d), resolved per the
// spec's stated default). It makes no role check of its own; the HTTP
// handler admits ADMIN and HR.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Loan, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != models.LoanActive {
		return nil, ErrNotActive
	}
	l.Status = models.LoanCancelled
	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, apierror.Wrap(err)
	}
	return l, nil
}

// ListActiveForEmployee satisfies payroll.LoanSource.
func (s *Service) ListActiveForEmployee(ctx context.Context, employeeID string, period models.Period) ([]models.Loan, error) {
	return s.repo.ListActiveForEmployee(ctx, employeeID, period)
}

// RecordEMIPayment satisfies payroll.LoanSource: the generator has already
// mutated loan's PaidEMICount/RemainingBalance/Status in memory; this
// persists that mutation and keeps the deterministic Schedule's per-entry
// status in sync.
func (s *Service) RecordEMIPayment(ctx context.Context, l *models.Loan) error {
	if l.PaidEMICount > 0 && l.PaidEMICount <= len(l.Schedule) {
		l.Schedule[l.PaidEMICount-1].Status = models.InstallmentPaid
	}
	l.UpdatedAt = s.now()
	return s.repo.Update(ctx, l)
}
