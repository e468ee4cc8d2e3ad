package models

import "time"

// EmployeeStatus is the employment lifecycle flag. There is no hard-delete
// while payroll/leave references exist; exit flips status to INACTIVE.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
)

// EmploymentType classifies how an employee is engaged.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentContract EmploymentType = "CONTRACT"
	EmploymentIntern   EmploymentType = "INTERN"
)

// Compensation is the employee's compensation block: the inputs to the
// calculator in the payroll package, plus the components it derives. The
// derived fields are recomputed whenever Basic/CTC change and persisted so
// reads don't need to re-run the calculator.
type Compensation struct {
	CTCAnnual         Decimal `json:"ctc_annual"`
	HRAPercent        Decimal `json:"hra_percent"`
	Conveyance        Decimal `json:"conveyance"`
	Telephone         Decimal `json:"telephone"`
	MedicalAllowance  Decimal `json:"medical_allowance"`
	IncludePF         bool    `json:"include_pf"`
	IncludeESI        bool    `json:"include_esi"`
	TDSAnnual         Decimal `json:"tds_annual"`
	MonthlyCTC        Decimal `json:"monthly_ctc"`
	Basic             Decimal `json:"basic"`
	HRA               Decimal `json:"hra"`
	SpecialAllowance  Decimal `json:"special_allowance"`
	Gross             Decimal `json:"gross"`
	PFEmployee        Decimal `json:"pf_employee"`
	PFEmployer        Decimal `json:"pf_employer"`
	ESIEmployee        Decimal `json:"esi_employee"`
	ESIEmployer        Decimal `json:"esi_employer"`
	ProfessionalTax   Decimal `json:"professional_tax"`
	TDSMonthly        Decimal `json:"tds_monthly"`
	Net               Decimal `json:"net"`
}

// BankDetails is the employee's disbursement account.
type BankDetails struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`
}

// Employee is the HR system's central aggregate.
type Employee struct {
	Base
	PublicID   string `json:"public_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	DOB        time.Time `json:"dob"`
	OfficialEmail string `json:"official_email"`
	PersonalEmail string `json:"personal_email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`

	EmploymentType      EmploymentType `json:"employment_type"`
	Department          string         `json:"department"`
	DesignationID       string         `json:"designation_id"`
	ReportingManagerID  string         `json:"reporting_manager_id,omitempty"`
	JoinDate            time.Time      `json:"join_date"`
	WorkLocation        string         `json:"work_location,omitempty"`
	ProbationMonths     int            `json:"probation_months"`

	Compensation Compensation `json:"compensation"`
	Bank         BankDetails  `json:"bank"`

	Status EmployeeStatus `json:"status"`
}

// FullName joins the name parts for display and notification purposes.
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// CreateEmployeeRequest is the payload for POST /employees.
type CreateEmployeeRequest struct {
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	DOB                time.Time      `json:"dob"`
	OfficialEmail      string         `json:"official_email"`
	PersonalEmail      string         `json:"personal_email,omitempty"`
	Phone              string         `json:"phone,omitempty"`
	Address            string         `json:"address,omitempty"`
	EmploymentType     EmploymentType `json:"employment_type"`
	Department         string         `json:"department"`
	DesignationID      string         `json:"designation_id"`
	ReportingManagerID string         `json:"reporting_manager_id,omitempty"`
	JoinDate           time.Time      `json:"join_date"`
	WorkLocation       string         `json:"work_location,omitempty"`
	ProbationMonths    int            `json:"probation_months"`
	CTCAnnual          Decimal        `json:"ctc_annual"`
	HRAPercent         *Decimal       `json:"hra_percent,omitempty"`
	Conveyance         *Decimal       `json:"conveyance,omitempty"`
	Telephone          *Decimal       `json:"telephone,omitempty"`
	MedicalAllowance   *Decimal       `json:"medical_allowance,omitempty"`
	IncludePF          bool           `json:"include_pf"`
	IncludeESI         bool           `json:"include_esi"`
	TDSAnnual          Decimal        `json:"tds_annual"`
	Bank               BankDetails    `json:"bank"`
}

// UpdateEmployeeRequest carries the mutable subset of an Employee; nil
// pointers leave the field untouched.
type UpdateEmployeeRequest struct {
	Phone              *string         `json:"phone,omitempty"`
	Address            *string         `json:"address,omitempty"`
	Department         *string         `json:"department,omitempty"`
	DesignationID      *string         `json:"designation_id,omitempty"`
	ReportingManagerID *string         `json:"reporting_manager_id,omitempty"`
	WorkLocation       *string         `json:"work_location,omitempty"`
	CTCAnnual          *Decimal        `json:"ctc_annual,omitempty"`
	HRAPercent         *Decimal        `json:"hra_percent,omitempty"`
	Conveyance         *Decimal        `json:"conveyance,omitempty"`
	Telephone          *Decimal        `json:"telephone,omitempty"`
	MedicalAllowance   *Decimal        `json:"medical_allowance,omitempty"`
	IncludePF          *bool           `json:"include_pf,omitempty"`
	IncludeESI         *bool           `json:"include_esi,omitempty"`
	TDSAnnual          *Decimal        `json:"tds_annual,omitempty"`
	Bank               *BankDetails    `json:"bank,omitempty"`
}

// ExitEmployeeRequest flips an employee to INACTIVE.
type ExitEmployeeRequest struct {
	ExitDate time.Time `json:"exit_date"`
	Reason   string    `json:"reason,omitempty"`
}
