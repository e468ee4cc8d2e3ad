package loan

import "github.com/HMB-research/open-accounting/internal/apierror"

var (
	// ErrNotFound is returned when a loan id does not resolve.
	ErrNotFound = apierror.New(apierror.NotFound, "loan not found")
	// ErrNotActive is returned when a mutation requires an ACTIVE loan.
	ErrNotActive = apierror.New(apierror.IllegalStateTransition, "loan is not active")
	// ErrAlreadySettled guards against deducting past emi-count.
	ErrAlreadySettled = apierror.New(apierror.IllegalStateTransition, "loan is already fully paid")
)
