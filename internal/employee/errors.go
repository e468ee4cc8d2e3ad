// Package employee implements the HR system's central aggregate: CRUD,
// compensation derivation via the payroll calculator, and exit handling.
package employee

import "github.com/HMB-research/open-accounting/internal/apierror"

var (
	ErrNotFound         = apierror.New(apierror.NotFound, "employee not found")
	ErrEmailTaken       = apierror.New(apierror.Conflict, "official email is already in use")
	ErrJoinDateInFuture = apierror.New(apierror.InvalidInput, "join date must not be in the future")
)
