// Package designation implements the designation catalog: free CRUD by
// ADMIN, with delete refused while any employee still references the row.
package designation

import "github.com/HMB-research/open-accounting/internal/apierror"

var (
	ErrNotFound          = apierror.New(apierror.NotFound, "designation not found")
	ErrTitleTaken        = apierror.New(apierror.Conflict, "a designation with this title already exists")
	ErrInUse             = apierror.New(apierror.Conflict, "designation is referenced by one or more employees")
	ErrReportsToNotFound = apierror.New(apierror.InvalidInput, "reports_to does not name an existing designation")
	ErrCyclicHierarchy   = apierror.New(apierror.InvalidInput, "reports_to would create a cycle in the designation hierarchy")
)
