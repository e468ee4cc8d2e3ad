package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type correlationContextKey string

// CorrelationIDHeader is the header every response carries so a client and
// the server's structured logs can be matched to the same request (§6).
const CorrelationIDHeader = "X-Correlation-ID"

const correlationIDContextKey correlationContextKey = "correlation_id"

// CorrelationID tags every request with an id: the caller's own
// X-Correlation-ID is honored if present, otherwise one is generated. It
// runs ahead of rate limiting in the chain so that 429 responses carry the
// header too.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, id)

		ctx := context.WithValue(r.Context(), correlationIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CorrelationIDFromContext retrieves the id stamped by CorrelationID, or ""
// if the middleware never ran.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDContextKey).(string)
	return id
}
