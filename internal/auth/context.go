package auth

import "context"

type contextKey string

// ClaimsContextKey is the context key under which authenticated request
// claims are stored by Authenticate.
const ClaimsContextKey contextKey = "auth.claims"

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// GetClaims retrieves the authenticated claims stashed by Authenticate. The
// second return value is false for unauthenticated requests.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}
