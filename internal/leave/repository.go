package leave

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for leave requests, types, and
// balances.
type Repository interface {
	Create(ctx context.Context, lr *models.LeaveRequest) error
	Get(ctx context.Context, id string) (*models.LeaveRequest, error)
	Update(ctx context.Context, lr *models.LeaveRequest) error
	ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveRequest, error)
	ListApprovedOverlapping(ctx context.Context, employeeID string, start, end string) ([]models.LeaveRequest, error)

	GetLeaveType(ctx context.Context, id string) (*models.LeaveType, error)

	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (*models.LeaveBalance, error)
	UpdateBalance(ctx context.Context, balance *models.LeaveBalance) error
	CreateBalance(ctx context.Context, balance *models.LeaveBalance) error
	ListBalancesByYear(ctx context.Context, year int) ([]models.LeaveBalance, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)
	WithTx(tx pgx.Tx) Repository
}

// PostgresRepository is the pgx-backed Repository implementation, following
// the teacher's tx-aware exec/queryRow/query helper pattern.
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

func (r *PostgresRepository) Create(ctx context.Context, lr *models.LeaveRequest) error {
	return r.exec(ctx, `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, start_date, end_date, days, reason, status,
			reporting_manager_id, department, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, lr.ID, lr.EmployeeID, lr.LeaveTypeID, lr.StartDate, lr.EndDate, lr.Days, lr.Reason, lr.Status,
		lr.ReportingManagerID, lr.Department, lr.CreatedAt, lr.UpdatedAt)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	var lr models.LeaveRequest
	err := r.queryRow(ctx, `
		SELECT id, employee_id, leave_type_id, start_date, end_date, days, reason, status,
			COALESCE(reporting_manager_id, ''), COALESCE(department, ''),
			manager_approval_actor, manager_approval_at, manager_approval_comments,
			admin_approval_actor, admin_approval_at, admin_approval_comments,
			rejection_actor, rejection_at, rejection_reason,
			created_at, updated_at
		FROM leave_requests WHERE id = $1
	`, id).Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate, &lr.Days, &lr.Reason, &lr.Status,
		&lr.ReportingManagerID, &lr.Department,
		&lr.ManagerApproval.Actor, &lr.ManagerApproval.At, &lr.ManagerApproval.Comments,
		&lr.AdminApproval.Actor, &lr.AdminApproval.At, &lr.AdminApproval.Comments,
		&lr.Rejection.Actor, &lr.Rejection.At, &lr.Rejection.Reason,
		&lr.CreatedAt, &lr.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get leave request: %w", err)
	}
	return &lr, nil
}

func (r *PostgresRepository) Update(ctx context.Context, lr *models.LeaveRequest) error {
	return r.exec(ctx, `
		UPDATE leave_requests SET
			status = $1,
			manager_approval_actor = $2, manager_approval_at = $3, manager_approval_comments = $4,
			admin_approval_actor = $5, admin_approval_at = $6, admin_approval_comments = $7,
			rejection_actor = $8, rejection_at = $9, rejection_reason = $10,
			updated_at = $11
		WHERE id = $12
	`, lr.Status,
		lr.ManagerApproval.Actor, lr.ManagerApproval.At, lr.ManagerApproval.Comments,
		lr.AdminApproval.Actor, lr.AdminApproval.At, lr.AdminApproval.Comments,
		lr.Rejection.Actor, lr.Rejection.At, lr.Rejection.Reason,
		lr.UpdatedAt, lr.ID)
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveRequest, error) {
	rows, err := r.query(ctx, `
		SELECT id, employee_id, leave_type_id, start_date, end_date, days, reason, status,
			COALESCE(reporting_manager_id, ''), COALESCE(department, ''), created_at, updated_at
		FROM leave_requests WHERE employee_id = $1 ORDER BY start_date DESC
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaveRequest
	for rows.Next() {
		var lr models.LeaveRequest
		if err := rows.Scan(&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate, &lr.Days,
			&lr.Reason, &lr.Status, &lr.ReportingManagerID, &lr.Department, &lr.CreatedAt, &lr.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, nil
}

func (r *PostgresRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end string) ([]models.LeaveRequest, error) {
	rows, err := r.query(ctx, `
		SELECT id, employee_id, leave_type_id, start_date, end_date, days, reason, status,
			COALESCE(reporting_manager_id, ''), COALESCE(department, ''), created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $4
	`, employeeID, models.LeaveAdminApproved, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaveRequest
	for rows.Next() {
		var lr models.LeaveRequest
		if err := rows.Scan(&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate, &lr.Days,
			&lr.Reason, &lr.Status, &lr.ReportingManagerID, &lr.Department, &lr.CreatedAt, &lr.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, nil
}

func (r *PostgresRepository) GetLeaveType(ctx context.Context, id string) (*models.LeaveType, error) {
	var lt models.LeaveType
	err := r.queryRow(ctx, `
		SELECT id, code, name, is_paid, default_days_per_year, max_carryover_days, is_active, created_at, updated_at
		FROM leave_types WHERE id = $1
	`, id).Scan(&lt.ID, &lt.Code, &lt.Name, &lt.IsPaid, &lt.DefaultDaysPerYear, &lt.MaxCarryoverDays,
		&lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get leave type: %w", err)
	}
	return &lt, nil
}

func (r *PostgresRepository) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (*models.LeaveBalance, error) {
	var b models.LeaveBalance
	err := r.queryRow(ctx, `
		SELECT id, employee_id, leave_type_id, year, entitled_days, carryover_days, used_days, pending_days, remaining_days, created_at, updated_at
		FROM leave_balances WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`, employeeID, leaveTypeID, year).Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.EntitledDays,
		&b.CarryoverDays, &b.UsedDays, &b.PendingDays, &b.RemainingDays, &b.CreatedAt, &b.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get leave balance: %w", err)
	}
	return &b, nil
}

func (r *PostgresRepository) UpdateBalance(ctx context.Context, balance *models.LeaveBalance) error {
	return r.exec(ctx, `
		UPDATE leave_balances SET
			entitled_days = $1, carryover_days = $2, used_days = $3, pending_days = $4, remaining_days = $5, updated_at = $6
		WHERE id = $7
	`, balance.EntitledDays, balance.CarryoverDays, balance.UsedDays, balance.PendingDays, balance.RemainingDays,
		balance.UpdatedAt, balance.ID)
}

// CreateBalance inserts the next year-end's opening ledger row, used by the
// carryover job to seed a fresh (employee, leave_type, year) balance.
func (r *PostgresRepository) CreateBalance(ctx context.Context, balance *models.LeaveBalance) error {
	return r.exec(ctx, `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year, entitled_days, carryover_days, used_days, pending_days, remaining_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, balance.ID, balance.EmployeeID, balance.LeaveTypeID, balance.Year, balance.EntitledDays, balance.CarryoverDays,
		balance.UsedDays, balance.PendingDays, balance.RemainingDays, balance.CreatedAt, balance.UpdatedAt)
}

// ListBalancesByYear returns every leave balance ledger row for year, the
// carryover job's input set each time it rolls a year boundary forward.
func (r *PostgresRepository) ListBalancesByYear(ctx context.Context, year int) ([]models.LeaveBalance, error) {
	rows, err := r.query(ctx, `
		SELECT id, employee_id, leave_type_id, year, entitled_days, carryover_days, used_days, pending_days, remaining_days, created_at, updated_at
		FROM leave_balances WHERE year = $1
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaveBalance
	for rows.Next() {
		var b models.LeaveBalance
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.EntitledDays,
			&b.CarryoverDays, &b.UsedDays, &b.PendingDays, &b.RemainingDays, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
