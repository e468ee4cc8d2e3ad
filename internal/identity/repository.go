package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for user accounts.
type Repository interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

// PostgresRepository is the pgx-backed Repository implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `
	id, username, email, password_hash, enabled, roles, employee_id, last_login_at, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+selectColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.Enabled, rolesToStrings(u.Roles),
		nullableString(u.EmployeeID), u.LastLoginAt, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+selectColumns+` FROM users WHERE username = $1`, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+selectColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var u models.User
	var roles []string
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Enabled, &roles,
		&u.EmployeeID, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Roles = stringsToRoles(roles)
	return &u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u *models.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET
			password_hash = $1, enabled = $2, roles = $3, employee_id = $4, last_login_at = $5, updated_at = $6
		WHERE id = $7
	`, u.PasswordHash, u.Enabled, rolesToStrings(u.Roles), nullableString(u.EmployeeID), u.LastLoginAt, u.UpdatedAt, u.ID)
	return err
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var roles []string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Enabled, &roles,
			&u.EmployeeID, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Roles = stringsToRoles(roles)
		out = append(out, u)
	}
	return out, nil
}

func rolesToStrings(roles []models.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(roles []string) []models.Role {
	out := make([]models.Role, len(roles))
	for i, r := range roles {
		out[i] = models.Role(r)
	}
	return out
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
