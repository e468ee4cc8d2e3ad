package leave

import "github.com/HMB-research/open-accounting/internal/apierror"

var (
	// ErrNotFound is returned when a leave request does not exist.
	ErrNotFound = apierror.New(apierror.NotFound, "Leave request not found")

	// ErrInvalidInterval covers past start dates and end-before-start dates.
	ErrInvalidInterval = apierror.New(apierror.InvalidInput, "Invalid leave interval")

	// ErrReasonLength covers the 10-1000 char reason-length constraint.
	ErrReasonLength = apierror.New(apierror.InvalidInput, "Reason must be between 10 and 1000 characters")

	// ErrCommentsLength covers the 5-500 char approval-comment constraint.
	ErrCommentsLength = apierror.New(apierror.InvalidInput, "Comments must be between 5 and 500 characters")

	// ErrOverlap is returned when the requested interval overlaps an
	// existing ADMIN_APPROVED leave for the same employee.
	ErrOverlap = apierror.New(apierror.InvalidInput, "Leave interval overlaps an already-approved leave")

	// ErrIllegalTransition is returned for any transition not in the §4.5
	// state table.
	ErrIllegalTransition = apierror.New(apierror.IllegalStateTransition, "Leave request cannot transition from its current state")

	// ErrInsufficientBalance is returned when the requested days exceed the
	// employee's remaining leave balance for the leave type/year.
	ErrInsufficientBalance = apierror.New(apierror.DomainRuleViolation, "Insufficient leave balance")
)
