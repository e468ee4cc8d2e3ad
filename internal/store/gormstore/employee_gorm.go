//go:build gorm

// Package gormstore is the alternate Store adapter: the repository
// interface internal/employee defines, backed by gorm.io/gorm instead of
// pgx, built only with the "gorm" tag. It demonstrates the teacher's
// dual-driver pattern (see internal/email's GORMRepository) on the employee
// roster. Pay-runs are not covered: payroll.Repository's BeginTx/WithTx
// contract is expressed in pgx.Tx, which a GORM connection does not provide.
//
// Employee's nested Compensation/BankDetails value objects don't map onto a
// single flat GORM model without a parallel field-by-field re-declaration,
// so this adapter drops to gorm's Raw/Rows escape hatch rather than
// AutoMigrate-managed structs - the same raw-SQL style internal/email's GORM
// repository already uses for its upsert. It reuses the same column layout
// and database/sql-compatible scan targets as employee.PostgresRepository.
package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/HMB-research/open-accounting/internal/employee"
	"github.com/HMB-research/open-accounting/internal/models"
)

const employeeColumns = `
	id, public_id, first_name, last_name, dob, official_email, personal_email, phone, address,
	employment_type, department, designation_id, reporting_manager_id, join_date, work_location, probation_months,
	ctc_annual, hra_percent, conveyance, telephone, medical_allowance, include_pf, include_esi, tds_annual,
	monthly_ctc, basic, hra, special_allowance, gross, pf_employee, pf_employer, esi_employee, esi_employer,
	professional_tax, tds_monthly, net,
	bank_account_holder, bank_account_number, bank_ifsc, bank_name,
	status, created_at, updated_at`

// EmployeeRepository implements employee.Repository using GORM's raw-SQL
// escape hatch over the same employees table the pgx driver uses.
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository builds an employee.Repository backed by db.
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ employee.Repository = (*EmployeeRepository)(nil)

func employeeScanArgs(e *models.Employee) []interface{} {
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

func employeeScanTargets(e *models.Employee) []interface{} {
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

func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,
			?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, employeeScanArgs(e)...).Error
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*models.Employee, error) {
	return r.scanOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
}

func (r *EmployeeRepository) GetByOfficialEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.scanOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE official_email = ?`, email)
}

func (r *EmployeeRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Employee, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, employee.ErrNotFound
	}
	var e models.Employee
	if err := rows.Scan(employeeScanTargets(&e)...); err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE employees SET
			phone = ?, address = ?, department = ?, designation_id = ?, reporting_manager_id = ?,
			work_location = ?,
			ctc_annual = ?, hra_percent = ?, conveyance = ?, telephone = ?, medical_allowance = ?,
			include_pf = ?, include_esi = ?, tds_annual = ?,
			monthly_ctc = ?, basic = ?, hra = ?, special_allowance = ?, gross = ?,
			pf_employee = ?, pf_employer = ?, esi_employee = ?, esi_employer = ?,
			professional_tax = ?, tds_monthly = ?, net = ?,
			bank_account_holder = ?, bank_account_number = ?, bank_ifsc = ?, bank_name = ?,
			status = ?, updated_at = ?
		WHERE id = ?
	`, e.Phone, e.Address, e.Department, e.DesignationID, e.ReportingManagerID, e.WorkLocation,
		e.Compensation.CTCAnnual, e.Compensation.HRAPercent, e.Compensation.Conveyance, e.Compensation.Telephone, e.Compensation.MedicalAllowance,
		e.Compensation.IncludePF, e.Compensation.IncludeESI, e.Compensation.TDSAnnual,
		e.Compensation.MonthlyCTC, e.Compensation.Basic, e.Compensation.HRA, e.Compensation.SpecialAllowance, e.Compensation.Gross,
		e.Compensation.PFEmployee, e.Compensation.PFEmployer, e.Compensation.ESIEmployee, e.Compensation.ESIEmployer,
		e.Compensation.ProfessionalTax, e.Compensation.TDSMonthly, e.Compensation.Net,
		e.Bank.AccountHolder, e.Bank.AccountNumber, e.Bank.IFSC, e.Bank.BankName,
		e.Status, e.UpdatedAt, e.ID).Error
}

func (r *EmployeeRepository) ListActive(ctx context.Context) ([]models.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees WHERE status = ? ORDER BY public_id`, models.EmployeeActive)
}

func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY public_id`)
}

func (r *EmployeeRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Employee, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(employeeScanTargets(&e)...); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *EmployeeRepository) CountByDesignation(ctx context.Context, designationID string) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Raw(`SELECT count(*) FROM employees WHERE designation_id = ?`, designationID).Row().Scan(&count)
	return count, err
}

func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Raw(`SELECT count(*) FROM employees`).Row().Scan(&count)
	return count, err
}
