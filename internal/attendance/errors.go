// Package attendance implements the monthly attendance upsert (§3): one
// record per (employee, month, year), immutable once a pay-run has
// consumed it.
package attendance

import "github.com/HMB-research/open-accounting/internal/apierror"

var (
	ErrNotFound       = apierror.New(apierror.NotFound, "attendance record not found")
	ErrConsumed       = apierror.New(apierror.Conflict, "attendance record already consumed by a pay-run")
	ErrDaySumMismatch = apierror.New(apierror.DomainRuleViolation, "present + absent + paid-leave + unpaid-leave must equal total working days")
	ErrDayCountRange  = apierror.New(apierror.InvalidInput, "day counts must be between 0 and 31")
)
