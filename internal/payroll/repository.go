package payroll

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// ErrAlreadyGenerated is returned when a PayRun already exists for the
// requested (month, year); §4.2 guarantees at most one per period.
var ErrAlreadyGenerated = fmt.Errorf("pay-run already generated for this period")

// Repository is the data-access contract for pay-runs, following the
// teacher's tx-aware exec/queryRow/query helper pattern.
type Repository interface {
	Create(ctx context.Context, run *models.PayRun) error
	Get(ctx context.Context, id string) (*models.PayRun, error)
	GetByPeriod(ctx context.Context, period models.Period) (*models.PayRun, error)
	ListByYear(ctx context.Context, year int) ([]models.PayRun, error)

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

// Create inserts a new pay-run. The (period_month, period_year) unique
// constraint is the create-if-absent guard §5 requires: a concurrent second
// insert for the same period fails at the database and is translated to
// ErrAlreadyGenerated by the caller inspecting the constraint violation.
func (r *PostgresRepository) Create(ctx context.Context, run *models.PayRun) error {
	lineItems, err := json.Marshal(run.LineItems)
	if err != nil {
		return fmt.Errorf("marshal line items: %w", err)
	}
	return r.exec(ctx, `
		INSERT INTO pay_runs (
			id, period_month, period_year, generated_at, generated_by,
			total_gross, total_deductions, total_net, line_items, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, run.ID, run.Period.Month, run.Period.Year, run.GeneratedAt, run.GeneratedBy,
		run.TotalGross, run.TotalDeductions, run.TotalNet, lineItems, run.CreatedAt, run.UpdatedAt)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.PayRun, error) {
	return r.scanOne(ctx, `
		SELECT id, period_month, period_year, generated_at, generated_by,
			total_gross, total_deductions, total_net, line_items, created_at, updated_at
		FROM pay_runs WHERE id = $1
	`, id)
}

func (r *PostgresRepository) GetByPeriod(ctx context.Context, period models.Period) (*models.PayRun, error) {
	return r.scanOne(ctx, `
		SELECT id, period_month, period_year, generated_at, generated_by,
			total_gross, total_deductions, total_net, line_items, created_at, updated_at
		FROM pay_runs WHERE period_month = $1 AND period_year = $2
	`, period.Month, period.Year)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.PayRun, error) {
	var run models.PayRun
	var lineItems []byte
	err := r.queryRow(ctx, query, args...).Scan(
		&run.ID, &run.Period.Month, &run.Period.Year, &run.GeneratedAt, &run.GeneratedBy,
		&run.TotalGross, &run.TotalDeductions, &run.TotalNet, &lineItems, &run.CreatedAt, &run.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pay run: %w", err)
	}
	if err := json.Unmarshal(lineItems, &run.LineItems); err != nil {
		return nil, fmt.Errorf("unmarshal line items: %w", err)
	}
	return &run, nil
}

func (r *PostgresRepository) ListByYear(ctx context.Context, year int) ([]models.PayRun, error) {
	rows, err := r.query(ctx, `
		SELECT id, period_month, period_year, generated_at, generated_by,
			total_gross, total_deductions, total_net, line_items, created_at, updated_at
		FROM pay_runs WHERE period_year = $1 ORDER BY period_month
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PayRun
	for rows.Next() {
		var run models.PayRun
		var lineItems []byte
		if err := rows.Scan(&run.ID, &run.Period.Month, &run.Period.Year, &run.GeneratedAt, &run.GeneratedBy,
			&run.TotalGross, &run.TotalDeductions, &run.TotalNet, &lineItems, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(lineItems, &run.LineItems)
		out = append(out, run)
	}
	return out, nil
}
