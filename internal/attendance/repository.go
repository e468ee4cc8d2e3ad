package attendance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for attendance records.
type Repository interface {
	Upsert(ctx context.Context, a *models.AttendanceRecord) error
	Get(ctx context.Context, employeeID string, period models.Period) (*models.AttendanceRecord, error)
	MarkConsumed(ctx context.Context, employeeID string, period models.Period) error
	ListByPeriod(ctx context.Context, period models.Period) ([]models.AttendanceRecord, error)
}

// PostgresRepository is the pgx-backed Repository implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Upsert(ctx context.Context, a *models.AttendanceRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance_records (
			id, employee_id, period_month, period_year, total_working_days, present_days,
			absent_days, paid_leave_days, unpaid_leave_days, remarks, consumed_by_pay_run,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (employee_id, period_month, period_year) DO UPDATE SET
			total_working_days = EXCLUDED.total_working_days,
			present_days = EXCLUDED.present_days,
			absent_days = EXCLUDED.absent_days,
			paid_leave_days = EXCLUDED.paid_leave_days,
			unpaid_leave_days = EXCLUDED.unpaid_leave_days,
			remarks = EXCLUDED.remarks,
			updated_at = EXCLUDED.updated_at
		WHERE attendance_records.consumed_by_pay_run = false
	`, a.ID, a.EmployeeID, a.Period.Month, a.Period.Year, a.TotalWorkingDays, a.PresentDays,
		a.AbsentDays, a.PaidLeaveDays, a.UnpaidLeaveDays, a.Remarks, a.ConsumedByPayRun,
		a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, employeeID string, period models.Period) (*models.AttendanceRecord, error) {
	var a models.AttendanceRecord
	err := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, period_month, period_year, total_working_days, present_days,
			absent_days, paid_leave_days, unpaid_leave_days, COALESCE(remarks, ''), consumed_by_pay_run,
			created_at, updated_at
		FROM attendance_records WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
	`, employeeID, period.Month, period.Year).Scan(
		&a.ID, &a.EmployeeID, &a.Period.Month, &a.Period.Year, &a.TotalWorkingDays, &a.PresentDays,
		&a.AbsentDays, &a.PaidLeaveDays, &a.UnpaidLeaveDays, &a.Remarks, &a.ConsumedByPayRun,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance record: %w", err)
	}
	return &a, nil
}

func (r *PostgresRepository) MarkConsumed(ctx context.Context, employeeID string, period models.Period) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE attendance_records SET consumed_by_pay_run = true
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
	`, employeeID, period.Month, period.Year)
	return err
}

func (r *PostgresRepository) ListByPeriod(ctx context.Context, period models.Period) ([]models.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, period_month, period_year, total_working_days, present_days,
			absent_days, paid_leave_days, unpaid_leave_days, COALESCE(remarks, ''), consumed_by_pay_run,
			created_at, updated_at
		FROM attendance_records WHERE period_month = $1 AND period_year = $2
	`, period.Month, period.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AttendanceRecord
	for rows.Next() {
		var a models.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Period.Month, &a.Period.Year, &a.TotalWorkingDays, &a.PresentDays,
			&a.AbsentDays, &a.PaidLeaveDays, &a.UnpaidLeaveDays, &a.Remarks, &a.ConsumedByPayRun,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
