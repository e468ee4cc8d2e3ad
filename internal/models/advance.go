package models

// AdvanceStatus tracks how much of a salary advance has been recovered.
type AdvanceStatus string

const (
	AdvancePending  AdvanceStatus = "PENDING"
	AdvancePartial  AdvanceStatus = "PARTIAL"
	AdvanceDeducted AdvanceStatus = "DEDUCTED"
)

// Advance is a single salary advance, recovered either in one shot in its
// deduction period or, if PartialAllowed, across several pay-runs.
type Advance struct {
	Base
	EmployeeID      string        `json:"employee_id"`
	AdvancePeriod   Period        `json:"advance_period"`
	PaidAmount      Decimal       `json:"paid_amount"`
	DeductionPeriod Period        `json:"deduction_period"`
	RemainingAmount Decimal       `json:"remaining_amount"`
	PartialAllowed  bool          `json:"partial_allowed"`
	Status          AdvanceStatus `json:"status"`
}

// CreateAdvanceRequest is the payload for POST /advances.
type CreateAdvanceRequest struct {
	EmployeeID      string  `json:"employee_id"`
	AdvancePeriod   Period  `json:"advance_period"`
	PaidAmount      Decimal `json:"paid_amount"`
	DeductionPeriod Period  `json:"deduction_period"`
	PartialAllowed  bool    `json:"partial_allowed"`
}
