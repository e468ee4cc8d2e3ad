// Package identity implements user registration, authentication, and
// role administration (§4.6) on top of the auth package's password and
// token primitives.
package identity

import "github.com/HMB-research/open-accounting/internal/apierror"

var (
	ErrNotFound        = apierror.New(apierror.NotFound, "user not found")
	ErrUsernameTaken   = apierror.New(apierror.Conflict, "username is already in use")
	ErrEmailTaken      = apierror.New(apierror.Conflict, "email is already in use")
	ErrInvalidRole     = apierror.New(apierror.InvalidInput, "role is not one of the supported role names")
	ErrDisabled        = apierror.New(apierror.Unauthenticated, "account is disabled")
	ErrInvalidCreds    = apierror.New(apierror.Unauthenticated, "invalid username or password")
	ErrInvalidRefresh  = apierror.New(apierror.Unauthenticated, "invalid or expired refresh token")
)
