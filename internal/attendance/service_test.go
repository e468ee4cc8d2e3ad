package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HMB-research/open-accounting/internal/models"
)

type fakeRepo struct {
	records map[string]*models.AttendanceRecord
}

func key(employeeID string, period models.Period) string {
	return employeeID + "|" + period.String()
}

func newFakeRepo() *fakeRepo { return &fakeRepo{records: map[string]*models.AttendanceRecord{}} }

func (f *fakeRepo) Upsert(ctx context.Context, a *models.AttendanceRecord) error {
	cp := *a
	f.records[key(a.EmployeeID, a.Period)] = &cp
	return nil
}
func (f *fakeRepo) Get(ctx context.Context, employeeID string, period models.Period) (*models.AttendanceRecord, error) {
	r, ok := f.records[key(employeeID, period)]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}
func (f *fakeRepo) MarkConsumed(ctx context.Context, employeeID string, period models.Period) error {
	if r, ok := f.records[key(employeeID, period)]; ok {
		r.ConsumedByPayRun = true
	}
	return nil
}
func (f *fakeRepo) ListByPeriod(ctx context.Context, period models.Period) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, r := range f.records {
		if r.Period.Equal(period) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type sequentialUUID struct{ n int }

func (s *sequentialUUID) NewUUID() string {
	s.n++
	return "attendance-id"
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, &sequentialUUID{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func baseRequest() *models.UpsertAttendanceRequest {
	return &models.UpsertAttendanceRequest{
		EmployeeID: "emp-1", Period: models.Period{Month: 3, Year: 2026},
		TotalWorkingDays: 26, PresentDays: 20, AbsentDays: 2, PaidLeaveDays: 3, UnpaidLeaveDays: 1,
	}
}

func TestUpsertRejectsDaySumMismatch(t *testing.T) {
	svc := newTestService(newFakeRepo())
	req := baseRequest()
	req.AbsentDays = 99
	_, err := svc.Upsert(context.Background(), req)
	assert.Error(t, err)
}

func TestUpsertIsIdempotent(t *testing.T) {
	svc := newTestService(newFakeRepo())
	a1, err := svc.Upsert(context.Background(), baseRequest())
	require.NoError(t, err)

	a2, err := svc.Upsert(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, a1.ID, a2.ID)
}

func TestUpsertRefusedAfterConsumption(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, err := svc.Upsert(context.Background(), baseRequest())
	require.NoError(t, err)

	require.NoError(t, svc.MarkConsumed(context.Background(), "emp-1", models.Period{Month: 3, Year: 2026}))

	_, err = svc.Upsert(context.Background(), baseRequest())
	assert.Error(t, err)
}
