// Package middleware contains the HTTP middleware chain of the server:
// panic recovery, request logging, request IDs, CORS, per-client rate
// limiting, and request timeouts.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"tavola-hq/menugate/pkg/telemetry/logging"
)

// RequestIDHeader is the header carrying the request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a correlation ID. A client-provided
// X-Request-ID is honored; otherwise a UUID is generated. The ID is
// stored in the context, where the log handler picks it up, and echoed
// in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
