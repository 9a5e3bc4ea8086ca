package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout caps request processing by putting a deadline on the request
// context. Upstream provider calls inherit the deadline and are cancelled
// when it fires; the resulting context.DeadlineExceeded is classified as
// an upstream API failure by the error path. The handler itself keeps the
// ResponseWriter, so there is no racing writer goroutine.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
