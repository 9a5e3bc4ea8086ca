package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"tavola-hq/menugate/pkg/proxy"
	"tavola-hq/menugate/pkg/proxy/types"
)

// Recovery converts handler panics into a SYSTEM error envelope. The
// panic value and stack are logged; neither reaches the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				proxy.WriteEnvelope(w, types.NewError(types.KindSystem,
					"An internal error occurred. Please try again later."))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
