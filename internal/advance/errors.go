// Package advance implements salary advance creation and the
// pay-run-time deduction scheduler (§4.4).
package advance

import "github.com/HMB-research/open-accounting/internal/apierror"

var (
	// ErrNotFound is returned when an advance id does not resolve.
	ErrNotFound = apierror.New(apierror.NotFound, "advance not found")
	// ErrAlreadyDeducted guards a mutation against an already-settled advance.
	ErrAlreadyDeducted = apierror.New(apierror.IllegalStateTransition, "advance is already fully deducted")
	// ErrDeductionBeforeAdvance rejects a deduction period earlier than the
	// advance period (§3's "deduction period ≥ advance period" invariant).
	ErrDeductionBeforeAdvance = apierror.New(apierror.InvalidInput, "deduction period must not precede the advance period")
)
