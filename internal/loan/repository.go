package loan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for installment loans, following
// the teacher's tx-aware exec/queryRow/query helper pattern.
type Repository interface {
	Create(ctx context.Context, l *models.Loan) error
	Get(ctx context.Context, id string) (*models.Loan, error)
	Update(ctx context.Context, l *models.Loan) error
	ListActiveForEmployee(ctx context.Context, employeeID string, period models.Period) ([]models.Loan, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Loan, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)
	WithTx(tx pgx.Tx) Repository
}

// PostgresRepository is the pgx-backed Repository implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

// NewPostgresRepository builds a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *PostgresRepository) WithTx(tx pgx.Tx) Repository {
	return &PostgresRepository{pool: r.pool, tx: tx}
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	if r.tx != nil {
		_, err := r.tx.Exec(ctx, query, args...)
		return err
	}
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PostgresRepository) queryRow(ctx context.Context, query string, args ...interface{}) pgx.Row {
	if r.tx != nil {
		return r.tx.QueryRow(ctx, query, args...)
	}
	return r.pool.QueryRow(ctx, query, args...)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	if r.tx != nil {
		return r.tx.Query(ctx, query, args...)
	}
	return r.pool.Query(ctx, query, args...)
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.Loan) error {
	schedule, err := json.Marshal(l.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	return r.exec(ctx, `
		INSERT INTO loans (
			id, employee_id, principal, annual_interest_rate, emi_count, emi_amount, total_amount,
			start_month, start_year, paid_emi_count, remaining_balance, status, schedule, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, l.ID, l.EmployeeID, l.Principal, l.AnnualInterestRate, l.EMICount, l.EMIAmount, l.TotalAmount,
		l.Start.Month, l.Start.Year, l.PaidEMICount, l.RemainingBalance, l.Status, schedule, l.CreatedAt, l.UpdatedAt)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Loan, error) {
	return r.scanOne(ctx, `
		SELECT id, employee_id, principal, annual_interest_rate, emi_count, emi_amount, total_amount,
			start_month, start_year, paid_emi_count, remaining_balance, status, schedule, created_at, updated_at
		FROM loans WHERE id = $1
	`, id)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Loan, error) {
	var l models.Loan
	var schedule []byte
	err := r.queryRow(ctx, query, args...).Scan(
		&l.ID, &l.EmployeeID, &l.Principal, &l.AnnualInterestRate, &l.EMICount, &l.EMIAmount, &l.TotalAmount,
		&l.Start.Month, &l.Start.Year, &l.PaidEMICount, &l.RemainingBalance, &l.Status, &schedule, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}
	if err := json.Unmarshal(schedule, &l.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}
	return &l, nil
}

func (r *PostgresRepository) Update(ctx context.Context, l *models.Loan) error {
	schedule, err := json.Marshal(l.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	return r.exec(ctx, `
		UPDATE loans SET
			paid_emi_count = $1, remaining_balance = $2, status = $3, schedule = $4, updated_at = $5
		WHERE id = $6
	`, l.PaidEMICount, l.RemainingBalance, l.Status, schedule, l.UpdatedAt, l.ID)
}

// ListActiveForEmployee returns the employee's ACTIVE loans whose start
// period has already arrived relative to period (start_year, start_month) <=
// (period.Year, period.Month), so a pay-run never deducts a loan before its
// configured start.
func (r *PostgresRepository) ListActiveForEmployee(ctx context.Context, employeeID string, period models.Period) ([]models.Loan, error) {
	return r.listByEmployeeAndStatus(ctx, employeeID, &models.LoanActive, &period)
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Loan, error) {
	return r.listByEmployeeAndStatus(ctx, employeeID, nil, nil)
}

func (r *PostgresRepository) listByEmployeeAndStatus(ctx context.Context, employeeID string, status *models.LoanStatus, notAfter *models.Period) ([]models.Loan, error) {
	query := `
		SELECT id, employee_id, principal, annual_interest_rate, emi_count, emi_amount, total_amount,
			start_month, start_year, paid_emi_count, remaining_balance, status, schedule, created_at, updated_at
		FROM loans WHERE employee_id = $1`
	args := []interface{}{employeeID}
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, *status)
	}
	if notAfter != nil {
		query += fmt.Sprintf(" AND (start_year, start_month) <= ($%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, notAfter.Year, notAfter.Month)
	}
	query += " ORDER BY start_year, start_month"

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Loan
	for rows.Next() {
		var l models.Loan
		var schedule []byte
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Principal, &l.AnnualInterestRate, &l.EMICount, &l.EMIAmount, &l.TotalAmount,
			&l.Start.Month, &l.Start.Year, &l.PaidEMICount, &l.RemainingBalance, &l.Status, &schedule, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(schedule, &l.Schedule)
		out = append(out, l)
	}
	return out, nil
}
