package models

// LoanStatus is the lifecycle of an installment loan.
type LoanStatus string

const (
	LoanActive    LoanStatus = "ACTIVE"
	LoanCompleted LoanStatus = "COMPLETED"
	LoanCancelled LoanStatus = "CANCELLED"
)

// LoanInstallmentStatus marks whether a scheduled EMI has been applied by a
// pay-run yet.
type LoanInstallmentStatus string

const (
	InstallmentPending LoanInstallmentStatus = "pending"
	InstallmentPaid    LoanInstallmentStatus = "paid"
)

// Loan is an employee's installment loan. Schedule is derived by
// loan.BuildSchedule (internal/loan) and persisted alongside the loan so repeated
// reads don't need to recompute it.
type Loan struct {
	Base
	EmployeeID        string            `json:"employee_id"`
	Principal         Decimal           `json:"principal"`
	AnnualInterestRate Decimal          `json:"annual_interest_rate"`
	EMICount          int               `json:"emi_count"`
	EMIAmount         Decimal           `json:"emi_amount"`
	TotalAmount       Decimal           `json:"total_amount"`
	Start             Period            `json:"start"`
	PaidEMICount      int               `json:"paid_emi_count"`
	RemainingBalance  Decimal           `json:"remaining_balance"`
	Status            LoanStatus        `json:"status"`
	Schedule          []ScheduledEMI    `json:"schedule"`
}

// ScheduledEMI is one entry of the derived, deterministic repayment schedule.
type ScheduledEMI struct {
	Month  int                   `json:"month"`
	Year   int                   `json:"year"`
	Amount Decimal               `json:"amount"`
	Status LoanInstallmentStatus `json:"status"`
}

// CreateLoanRequest is the payload for POST /loans.
type CreateLoanRequest struct {
	EmployeeID         string  `json:"employee_id"`
	Principal          Decimal `json:"principal"`
	AnnualInterestRate Decimal `json:"annual_interest_rate"`
	EMICount           int     `json:"emi_count"`
	Start              Period  `json:"start"`
}
