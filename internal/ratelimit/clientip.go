package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// UnknownIdentity groups requests whose origin cannot be determined.
const UnknownIdentity = "unknown"

// ClientIdentity resolves the rate-limit key for a request.
// Precedence:
// 1. X-Forwarded-For, first comma-separated token, trimmed
// 2. X-Real-IP, verbatim
// 3. Host part of the direct connection address
// 4. UnknownIdentity
func ClientIdentity(r *http.Request) string {
	if r == nil {
		return UnknownIdentity
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if r.RemoteAddr == "" {
		return UnknownIdentity
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// No port present, treat the whole value as the address
		return r.RemoteAddr
	}
	if host == "" {
		return UnknownIdentity
	}
	return host
}
