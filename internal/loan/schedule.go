// Package loan implements the installment loan scheduler and lifecycle
// service (§4.3): deterministic EMI schedule generation and the pay-run-time
// advance of a loan by one EMI.
package loan

import (
	"github.com/shopspring/decimal"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

var twoPlaces = decimal.NewFromInt(100)

func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// BuildSchedule derives the deterministic EMI schedule for a loan (§4.3). It
// is a pure function: the caller persists the resulting EMIAmount,
// TotalAmount, and Schedule onto the Loan aggregate.
func BuildSchedule(principal, annualInterestRate decimal.Decimal, emiCount int, start models.Period) (emiAmount, totalAmount decimal.Decimal, schedule []models.ScheduledEMI, err error) {
	if emiCount <= 0 {
		return decimal.Zero, decimal.Zero, nil, apierror.WithFields(apierror.InvalidInput,
			"EMI count must be positive", apierror.FieldError{Field: "emi_count", Message: "must be > 0"})
	}
	if principal.IsNegative() || principal.IsZero() {
		return decimal.Zero, decimal.Zero, nil, apierror.WithFields(apierror.InvalidInput,
			"principal must be positive", apierror.FieldError{Field: "principal", Message: "must be > 0"})
	}

	n := decimal.NewFromInt(int64(emiCount))

	if annualInterestRate.IsZero() {
		emi := principal.Div(n).Mul(twoPlaces).Ceil().Div(twoPlaces)
		total := decimal.Zero
		sched := make([]models.ScheduledEMI, emiCount)
		period := start
		for i := 0; i < emiCount; i++ {
			amount := emi
			if i == emiCount-1 {
				amount = principal.Sub(emi.Mul(decimal.NewFromInt(int64(emiCount - 1))))
			}
			sched[i] = models.ScheduledEMI{Month: period.Month, Year: period.Year, Amount: models.NewDecimal(amount), Status: models.InstallmentPending}
			total = total.Add(amount)
			period = period.Next()
		}
		return emi, total, sched, nil
	}

	r := annualInterestRate.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
	onePlusR := decimal.NewFromInt(1).Add(r)
	factor := onePlusR.Pow(n)
	emi := roundCents(principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))))

	total := emi.Mul(n)

	sched := make([]models.ScheduledEMI, emiCount)
	period := start
	for i := 0; i < emiCount; i++ {
		amount := emi
		if i == emiCount-1 {
			amount = total.Sub(emi.Mul(decimal.NewFromInt(int64(emiCount - 1))))
		}
		sched[i] = models.ScheduledEMI{Month: period.Month, Year: period.Year, Amount: models.NewDecimal(amount), Status: models.InstallmentPending}
		period = period.Next()
	}
	return emi, total, sched, nil
}
