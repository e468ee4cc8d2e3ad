package auth

import (
	"net/http"
	"strings"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

// Authenticate parses the Bearer access token, validates it, and stashes its
// claims on the request context. Missing or invalid tokens fail the request
// with Unauthenticated (§7) before any handler runs.
func Authenticate(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apierror.WriteJSON(w, r.Header.Get("X-Correlation-ID"),
					apierror.New(apierror.Unauthenticated, "Missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierror.WriteJSON(w, r.Header.Get("X-Correlation-ID"),
					apierror.New(apierror.Unauthenticated, "Authorization header must be a Bearer token"))
				return
			}

			claims, err := tokens.ValidateAccessToken(parts[1])
			if err != nil {
				apierror.WriteJSON(w, r.Header.Get("X-Correlation-ID"),
					apierror.New(apierror.Unauthenticated, "Invalid or expired token"))
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose claims hold none of the given roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				apierror.WriteJSON(w, r.Header.Get("X-Correlation-ID"),
					apierror.New(apierror.Unauthenticated, "Authentication required"))
				return
			}

			for _, role := range roles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			apierror.WriteJSON(w, r.Header.Get("X-Correlation-ID"),
				apierror.New(apierror.Unauthorized, "You do not have permission to perform this action"))
		})
	}
}

// RequireMinRole rejects requests whose highest role ranks below min in the
// role hierarchy (§4.6).
func RequireMinRole(min models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				apierror.WriteJSON(w, r.Header.Get("X-Correlation-ID"),
					apierror.New(apierror.Unauthenticated, "Authentication required"))
				return
			}

			if !claims.HighestRole().AtLeast(min) {
				apierror.WriteJSON(w, r.Header.Get("X-Correlation-ID"),
					apierror.New(apierror.Unauthorized, "You do not have permission to perform this action"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
