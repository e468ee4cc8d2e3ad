package advance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

// UUIDGenerator issues an advance's primary key.
type UUIDGenerator interface {
	NewUUID() string
}

// DefaultUUIDGenerator issues random v4 UUIDs.
type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) NewUUID() string { return uuid.NewString() }

// Service implements advance creation, lookup, and the pay-run-time
// deduction the payroll generator calls through AdvanceSource.
type Service struct {
	repo Repository
	uuid UUIDGenerator
	now  func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, gen UUIDGenerator) *Service {
	return &Service{repo: repo, uuid: gen, now: time.Now}
}

// Create validates the (paid_amount > 0, deduction ≥ advance period)
// invariants from §3 and persists a new PENDING advance.
func (s *Service) Create(ctx context.Context, req *models.CreateAdvanceRequest) (*models.Advance, error) {
	if !req.PaidAmount.Decimal.IsPositive() {
		return nil, apierror.WithFields(apierror.InvalidInput, "paid amount must be positive",
			apierror.FieldError{Field: "paid_amount", Message: "must be > 0"})
	}
	if req.DeductionPeriod.Before(req.AdvancePeriod) {
		return nil, ErrDeductionBeforeAdvance
	}

	now := s.now()
	a := &models.Advance{
		Base:            models.Base{ID: s.uuid.NewUUID(), CreatedAt: now, UpdatedAt: now},
		EmployeeID:      req.EmployeeID,
		AdvancePeriod:   req.AdvancePeriod,
		PaidAmount:      req.PaidAmount,
		DeductionPeriod: req.DeductionPeriod,
		RemainingAmount: req.PaidAmount,
		PartialAllowed:  req.PartialAllowed,
		Status:          models.AdvancePending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, apierror.Wrap(err)
	}
	return a, nil
}

// Get fetches an advance by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Advance, error) {
	return s.repo.Get(ctx, id)
}

// ListByEmployee lists all of an employee's advances.
func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]models.Advance, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

// ListDueForPeriod satisfies payroll.AdvanceSource.
func (s *Service) ListDueForPeriod(ctx context.Context, employeeID string, period models.Period) ([]models.Advance, error) {
	return s.repo.ListDueForPeriod(ctx, employeeID, period)
}

// RecordDeduction satisfies payroll.AdvanceSource: deducted is the amount
// the generator actually applied this pay-run (capped by PartialAllowed
// capacity per §4.4). The advance transitions to DEDUCTED when its
// remaining amount reaches zero, else PARTIAL.
func (s *Service) RecordDeduction(ctx context.Context, a *models.Advance, deducted decimal.Decimal) error {
	remaining := a.RemainingAmount.Decimal.Sub(deducted)
	a.RemainingAmount = models.NewDecimal(remaining)
	if remaining.IsZero() {
		a.Status = models.AdvanceDeducted
	} else {
		a.Status = models.AdvancePartial
	}
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}
