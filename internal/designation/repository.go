package designation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for designations.
type Repository interface {
	Create(ctx context.Context, d *models.Designation) error
	Get(ctx context.Context, id string) (*models.Designation, error)
	GetByTitle(ctx context.Context, title string) (*models.Designation, error)
	Update(ctx context.Context, d *models.Designation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Designation, error)
}

// PostgresRepository is the pgx-backed Repository implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Designation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO designations (id, title, department, level, reports_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.Title, d.Department, d.Level, d.ReportsTo, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Designation, error) {
	return r.scanOne(ctx, `
		SELECT id, title, department, level, COALESCE(reports_to, ''), created_at, updated_at
		FROM designations WHERE id = $1
	`, id)
}

func (r *PostgresRepository) GetByTitle(ctx context.Context, title string) (*models.Designation, error) {
	return r.scanOne(ctx, `
		SELECT id, title, department, level, COALESCE(reports_to, ''), created_at, updated_at
		FROM designations WHERE title = $1
	`, title)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Designation, error) {
	var d models.Designation
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&d.ID, &d.Title, &d.Department, &d.Level, &d.ReportsTo, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get designation: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.Designation) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE designations SET department = $1, level = $2, reports_to = $3, updated_at = $4 WHERE id = $5
	`, d.Department, d.Level, d.ReportsTo, d.UpdatedAt, d.ID)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM designations WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Designation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, department, level, COALESCE(reports_to, ''), created_at, updated_at
		FROM designations ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Designation
	for rows.Next() {
		var d models.Designation
		if err := rows.Scan(&d.ID, &d.Title, &d.Department, &d.Level, &d.ReportsTo, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
