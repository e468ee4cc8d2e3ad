package models

import "time"

// PayRun is an immutable snapshot of one month's computed payroll for all
// active employees. Unique per (month, year); never mutated after creation.
type PayRun struct {
	Base
	Period       Period            `json:"period"`
	GeneratedAt  time.Time         `json:"generated_at"`
	GeneratedBy  string            `json:"generated_by"`
	TotalGross   Decimal           `json:"total_gross"`
	TotalDeductions Decimal        `json:"total_deductions"`
	TotalNet     Decimal           `json:"total_net"`
	LineItems    []PayRunLineItem  `json:"line_items"`
}

// PayRunLineItem is one employee's computed payroll for the run's period.
type PayRunLineItem struct {
	EmployeeID          string  `json:"employee_id"`
	PayableDays         int     `json:"payable_days"`
	TotalWorkingDays    int     `json:"total_working_days"`
	Gross               Decimal `json:"gross"`
	PFEmployee          Decimal `json:"pf_employee"`
	ESIEmployee         Decimal `json:"esi_employee"`
	ProfessionalTax     Decimal `json:"professional_tax"`
	TDSMonthly          Decimal `json:"tds_monthly"`
	LoanDeductions      Decimal `json:"loan_deductions"`
	AdvanceDeductions   Decimal `json:"advance_deductions"`
	LossOfPayAmount     Decimal `json:"loss_of_pay_amount"`
	Net                 Decimal `json:"net"`
}

// GeneratePayRunRequest is the payload for POST /payruns/generate.
type GeneratePayRunRequest struct {
	Period Period `json:"period"`
}

// PayRunExportRow is the flattened input shape for a pay-run exporter; the
// exporter itself is out of scope beyond this input shape (§1). No code in
// this module builds it; the payslip PDF renderer (internal/pdf) works from
// PayRunLineItem.
type PayRunExportRow struct {
	EmployeePublicID string  `json:"employee_public_id"`
	EmployeeName     string  `json:"employee_name"`
	Gross            Decimal `json:"gross"`
	Deductions       Decimal `json:"deductions"`
	Net              Decimal `json:"net"`
}
