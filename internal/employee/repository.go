package employee

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for employees.
type Repository interface {
	Create(ctx context.Context, e *models.Employee) error
	Get(ctx context.Context, id string) (*models.Employee, error)
	GetByOfficialEmail(ctx context.Context, email string) (*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	ListActive(ctx context.Context) ([]models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	CountByDesignation(ctx context.Context, designationID string) (int, error)
	Count(ctx context.Context) (int, error)
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
	id, public_id, first_name, last_name, dob, official_email, personal_email, phone, address,
	employment_type, department, designation_id, reporting_manager_id, join_date, work_location, probation_months,
	ctc_annual, hra_percent, conveyance, telephone, medical_allowance, include_pf, include_esi, tds_annual,
	monthly_ctc, basic, hra, special_allowance, gross, pf_employee, pf_employer, esi_employee, esi_employer,
	professional_tax, tds_monthly, net,
	bank_account_holder, bank_account_number, bank_ifsc, bank_name,
	status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, e *models.Employee) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO employees (`+selectColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,
			$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36,$37,$38,$39,$40,$41,$42)
	`, scanArgs(e)...)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Employee, error) {
	return r.scanOne(ctx, `SELECT `+selectColumns+` FROM employees WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByOfficialEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.scanOne(ctx, `SELECT `+selectColumns+` FROM employees WHERE official_email = $1`, email)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Employee, error) {
	var e models.Employee
	err := r.pool.QueryRow(ctx, query, args...).Scan(scanTargets(&e)...)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.Employee) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE employees SET
			phone = $1, address = $2, department = $3, designation_id = $4, reporting_manager_id = $5,
			work_location = $6,
			ctc_annual = $7, hra_percent = $8, conveyance = $9, telephone = $10, medical_allowance = $11,
			include_pf = $12, include_esi = $13, tds_annual = $14,
			monthly_ctc = $15, basic = $16, hra = $17, special_allowance = $18, gross = $19,
			pf_employee = $20, pf_employer = $21, esi_employee = $22, esi_employer = $23,
			professional_tax = $24, tds_monthly = $25, net = $26,
			bank_account_holder = $27, bank_account_number = $28, bank_ifsc = $29, bank_name = $30,
			status = $31, updated_at = $32
		WHERE id = $33
	`, e.Phone, e.Address, e.Department, e.DesignationID, e.ReportingManagerID, e.WorkLocation,
		e.Compensation.CTCAnnual, e.Compensation.HRAPercent, e.Compensation.Conveyance, e.Compensation.Telephone, e.Compensation.MedicalAllowance,
		e.Compensation.IncludePF, e.Compensation.IncludeESI, e.Compensation.TDSAnnual,
		e.Compensation.MonthlyCTC, e.Compensation.Basic, e.Compensation.HRA, e.Compensation.SpecialAllowance, e.Compensation.Gross,
		e.Compensation.PFEmployee, e.Compensation.PFEmployer, e.Compensation.ESIEmployee, e.Compensation.ESIEmployer,
		e.Compensation.ProfessionalTax, e.Compensation.TDSMonthly, e.Compensation.Net,
		e.Bank.AccountHolder, e.Bank.AccountNumber, e.Bank.IFSC, e.Bank.BankName,
		e.Status, e.UpdatedAt, e.ID)
	return err
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]models.Employee, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM employees WHERE status = $1 ORDER BY public_id`, models.EmployeeActive)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Employee, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM employees ORDER BY public_id`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Employee, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(scanTargets(&e)...); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *PostgresRepository) CountByDesignation(ctx context.Context, designationID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM employees WHERE designation_id = $1`, designationID).Scan(&count)
	return count, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM employees`).Scan(&count)
	return count, err
}

func scanArgs(e *models.Employee) []interface{} {
	c := &e.Compensation
	return []interface{}{
		e.ID, e.PublicID, e.FirstName, e.LastName, e.DOB, e.OfficialEmail, e.PersonalEmail, e.Phone, e.Address,
		e.EmploymentType, e.Department, e.DesignationID, e.ReportingManagerID, e.JoinDate, e.WorkLocation, e.ProbationMonths,
		c.CTCAnnual, c.HRAPercent, c.Conveyance, c.Telephone, c.MedicalAllowance, c.IncludePF, c.IncludeESI, c.TDSAnnual,
		c.MonthlyCTC, c.Basic, c.HRA, c.SpecialAllowance, c.Gross, c.PFEmployee, c.PFEmployer, c.ESIEmployee, c.ESIEmployer,
		c.ProfessionalTax, c.TDSMonthly, c.Net,
		e.Bank.AccountHolder, e.Bank.AccountNumber, e.Bank.IFSC, e.Bank.BankName,
		e.Status, e.CreatedAt, e.UpdatedAt,
	}
}

func scanTargets(e *models.Employee) []interface{} {
	c := &e.Compensation
	return []interface{}{
		&e.ID, &e.PublicID, &e.FirstName, &e.LastName, &e.DOB, &e.OfficialEmail, &e.PersonalEmail, &e.Phone, &e.Address,
		&e.EmploymentType, &e.Department, &e.DesignationID, &e.ReportingManagerID, &e.JoinDate, &e.WorkLocation, &e.ProbationMonths,
		&c.CTCAnnual, &c.HRAPercent, &c.Conveyance, &c.Telephone, &c.MedicalAllowance, &c.IncludePF, &c.IncludeESI, &c.TDSAnnual,
		&c.MonthlyCTC, &c.Basic, &c.HRA, &c.SpecialAllowance, &c.Gross, &c.PFEmployee, &c.PFEmployer, &c.ESIEmployee, &c.ESIEmployer,
		&c.ProfessionalTax, &c.TDSMonthly, &c.Net,
		&e.Bank.AccountHolder, &e.Bank.AccountNumber, &e.Bank.IFSC, &e.Bank.BankName,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	}
}
