package advance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for salary advances, following the
// teacher's tx-aware exec/queryRow/query helper pattern.
type Repository interface {
	Create(ctx context.Context, a *models.Advance) error
	Get(ctx context.Context, id string) (*models.Advance, error)
	Update(ctx context.Context, a *models.Advance) error
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Advance, error)
	ListDueForPeriod(ctx context.Context, employeeID string, period models.Period) ([]models.Advance, error)

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

func (r *PostgresRepository) Create(ctx context.Context, a *models.Advance) error {
	return r.exec(ctx, `
		INSERT INTO advances (
			id, employee_id, advance_month, advance_year, paid_amount,
			deduction_month, deduction_year, remaining_amount, partial_allowed, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.ID, a.EmployeeID, a.AdvancePeriod.Month, a.AdvancePeriod.Year, a.PaidAmount,
		a.DeductionPeriod.Month, a.DeductionPeriod.Year, a.RemainingAmount, a.PartialAllowed, a.Status,
		a.CreatedAt, a.UpdatedAt)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Advance, error) {
	return r.scanOne(ctx, `
		SELECT id, employee_id, advance_month, advance_year, paid_amount,
			deduction_month, deduction_year, remaining_amount, partial_allowed, status,
			created_at, updated_at
		FROM advances WHERE id = $1
	`, id)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Advance, error) {
	var a models.Advance
	err := r.queryRow(ctx, query, args...).Scan(
		&a.ID, &a.EmployeeID, &a.AdvancePeriod.Month, &a.AdvancePeriod.Year, &a.PaidAmount,
		&a.DeductionPeriod.Month, &a.DeductionPeriod.Year, &a.RemainingAmount, &a.PartialAllowed, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get advance: %w", err)
	}
	return &a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Advance) error {
	return r.exec(ctx, `
		UPDATE advances SET remaining_amount = $1, status = $2, updated_at = $3 WHERE id = $4
	`, a.RemainingAmount, a.Status, a.UpdatedAt, a.ID)
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Advance, error) {
	rows, err := r.query(ctx, `
		SELECT id, employee_id, advance_month, advance_year, paid_amount,
			deduction_month, deduction_year, remaining_amount, partial_allowed, status,
			created_at, updated_at
		FROM advances WHERE employee_id = $1 ORDER BY advance_year, advance_month
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdvanceRows(rows)
}

func (r *PostgresRepository) ListDueForPeriod(ctx context.Context, employeeID string, period models.Period) ([]models.Advance, error) {
	rows, err := r.query(ctx, `
		SELECT id, employee_id, advance_month, advance_year, paid_amount,
			deduction_month, deduction_year, remaining_amount, partial_allowed, status,
			created_at, updated_at
		FROM advances
		WHERE employee_id = $1 AND deduction_month = $2 AND deduction_year = $3 AND status != $4
	`, employeeID, period.Month, period.Year, models.AdvanceDeducted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdvanceRows(rows)
}

func scanAdvanceRows(rows pgx.Rows) ([]models.Advance, error) {
	var out []models.Advance
	for rows.Next() {
		var a models.Advance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.AdvancePeriod.Month, &a.AdvancePeriod.Year, &a.PaidAmount,
			&a.DeductionPeriod.Month, &a.DeductionPeriod.Year, &a.RemainingAmount, &a.PartialAllowed, &a.Status,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
