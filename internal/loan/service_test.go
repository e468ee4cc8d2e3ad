package loan

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HMB-research/open-accounting/internal/models"
)

type fakeRepo struct {
	loans map[string]*models.Loan
}

func newFakeRepo() *fakeRepo { return &fakeRepo{loans: map[string]*models.Loan{}} }

func (f *fakeRepo) Create(ctx context.Context, l *models.Loan) error {
	cp := *l
	f.loans[l.ID] = &cp
	return nil
}
func (f *fakeRepo) Get(ctx context.Context, id string) (*models.Loan, error) {
	l, ok := f.loans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}
func (f *fakeRepo) Update(ctx context.Context, l *models.Loan) error {
	cp := *l
	f.loans[l.ID] = &cp
	return nil
}
func (f *fakeRepo) ListActiveForEmployee(ctx context.Context, employeeID string, period models.Period) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range f.loans {
		if l.EmployeeID == employeeID && l.Status == models.LoanActive && !period.Before(l.Start) {
			out = append(out, *l)
		}
	}
	return out, nil
}
func (f *fakeRepo) ListByEmployee(ctx context.Context, employeeID string) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range f.loans {
		if l.EmployeeID == employeeID {
			out = append(out, *l)
		}
	}
	return out, nil
}
func (f *fakeRepo) BeginTx(_ context.Context) (pgx.Tx, error) { return nil, nil }
func (f *fakeRepo) WithTx(_ pgx.Tx) Repository                { return f }

type sequentialUUID struct{ n int }

func (s *sequentialUUID) NewUUID() string {
	s.n++
	return "loan-id"
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, &sequentialUUID{})
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateLoan(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	l, err := svc.Create(context.Background(), &models.CreateLoanRequest{
		EmployeeID:         "emp-1",
		Principal:          models.NewDecimal(decimal.NewFromInt(60000)),
		AnnualInterestRate: models.DecimalZero(),
		EMICount:           12,
		Start:              models.Period{Month: 1, Year: 2026},
	})
	require.NoError(t, err)
	assert.Equal(t, models.LoanActive, l.Status)
	assert.True(t, l.EMIAmount.Decimal.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 0, l.PaidEMICount)
}

func TestCancelActiveLoanFreezesRemaining(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	l, err := svc.Create(context.Background(), &models.CreateLoanRequest{
		EmployeeID:         "emp-1",
		Principal:          models.NewDecimal(decimal.NewFromInt(60000)),
		AnnualInterestRate: models.DecimalZero(),
		EMICount:           12,
		Start:              models.Period{Month: 1, Year: 2026},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanCancelled, cancelled.Status)
	assert.True(t, cancelled.RemainingBalance.Decimal.Equal(decimal.NewFromInt(60000)))
}

func TestCancelNonActiveLoanRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	l, err := svc.Create(context.Background(), &models.CreateLoanRequest{
		EmployeeID:         "emp-1",
		Principal:          models.NewDecimal(decimal.NewFromInt(1000)),
		AnnualInterestRate: models.DecimalZero(),
		EMICount:           2,
		Start:              models.Period{Month: 1, Year: 2026},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), l.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), l.ID)
	assert.Error(t, err)
}

func TestTwelveEMIsCompleteLoan(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	l, err := svc.Create(context.Background(), &models.CreateLoanRequest{
		EmployeeID:         "emp-1",
		Principal:          models.NewDecimal(decimal.NewFromInt(60000)),
		AnnualInterestRate: models.DecimalZero(),
		EMICount:           12,
		Start:              models.Period{Month: 1, Year: 2026},
	})
	require.NoError(t, err)

	for i := 1; i <= 12; i++ {
		l.PaidEMICount++
		l.RemainingBalance = models.NewDecimal(l.TotalAmount.Decimal.Sub(l.EMIAmount.Decimal.Mul(decimal.NewFromInt(int64(l.PaidEMICount)))))
		if l.PaidEMICount >= l.EMICount {
			l.Status = models.LoanCompleted
			l.RemainingBalance = models.DecimalZero()
		}
		require.NoError(t, svc.RecordEMIPayment(context.Background(), l))
	}

	got, err := svc.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanCompleted, got.Status)
	assert.True(t, got.RemainingBalance.Decimal.IsZero())
	assert.Equal(t, models.InstallmentPaid, got.Schedule[11].Status)
}
