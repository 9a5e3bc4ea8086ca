package proxy

import (
	"net"
	"net/http"
	"strings"
)

// unknownClient is the rate-limit key used when no usable address can be
// derived. All such requests share one bucket, which fails safe: they are
// limited collectively rather than not at all.
const unknownClient = "unknown"

// ClientKey derives the rate-limit identity of a request.
//
// Sources in order: the first usable entry of X-Forwarded-For, then
// X-Real-IP, then the connection's remote address. Entries literally
// equal to "unknown" (some proxies insert them) are skipped. The value is
// taken as-is from trusted proxy headers; this server is expected to run
// behind a proxy it trusts.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			ip := strings.TrimSpace(part)
			if ip != "" && !strings.EqualFold(ip, unknownClient) {
				return ip
			}
		}
	}

	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" && !strings.EqualFold(rip, unknownClient) {
		return rip
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return unknownClient
}
