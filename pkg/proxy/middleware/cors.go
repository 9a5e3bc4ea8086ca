package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"tavola-hq/menugate/pkg/config"
)

// corsPolicy is an immutable snapshot of the CORS settings. The CORS
// middleware swaps whole policies atomically on config reload, so
// in-flight requests always see a consistent one.
type corsPolicy struct {
	allowedOrigins   []string
	allowCredentials bool
	maxAge           int
}

// CORS applies Cross-Origin Resource Sharing headers and answers
// preflight requests.
//
// An origin is allowed when it is on the configured allow-list or when
// its host is localhost or 127.0.0.1 (any port, any scheme), so local
// development never needs config changes. Requests without an Origin
// header are not browser cross-origin requests and pass through
// untouched. Disallowed origins get no CORS headers; the browser
// enforces the block.
type CORS struct {
	policy atomic.Pointer[corsPolicy]
}

// NewCORS builds the middleware from the current config.
func NewCORS(cfg config.CORSConfig) *CORS {
	c := &CORS{}
	c.Update(cfg)
	return c
}

// Update swaps in a new policy. Safe to call while requests are in
// flight; used by the config watcher.
func (c *CORS) Update(cfg config.CORSConfig) {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.policy.Store(&corsPolicy{
		allowedOrigins:   append([]string(nil), cfg.AllowedOrigins...),
		allowCredentials: cfg.AllowCredentials,
		maxAge:           maxAge,
	})
}

// Wrap returns the handler with CORS applied.
func (c *CORS) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		policy := c.policy.Load()
		if policy.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			if policy.allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-Menugate-Provider, X-Menugate-Model")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(policy.maxAge))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (p *corsPolicy) originAllowed(origin string) bool {
	for _, allowed := range p.allowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return isLocalOrigin(origin)
}

// isLocalOrigin reports whether the origin's host is localhost or the
// loopback address, ignoring scheme and port.
func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "localhost" || host == "127.0.0.1"
}
