package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/staffsearch/staffsearch/internal/metrics"
	"github.com/staffsearch/staffsearch/internal/ratelimit"
)

// DefaultBypassPaths are never rate limited and never consume a slot.
var DefaultBypassPaths = []string{
	"/",
	"/health",
	"/health/live",
	"/health/ready",
	"/health/startup",
	"/docs",
	"/redoc",
	"/openapi.json",
	"/version",
	"/metrics",
}

// RateLimitedResponse is the body returned with 429 Too Many Requests.
type RateLimitedResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RateLimit consults limiter once per request whose path is not in bypass.
// Limited requests are answered with 429 and never reach next. A nil bypass
// uses DefaultBypassPaths.
func RateLimit(limiter *ratelimit.Limiter, bypass []string) func(http.Handler) http.Handler {
	if bypass == nil {
		bypass = DefaultBypassPaths
	}
	skip := make(map[string]struct{}, len(bypass))
	for _, p := range bypass {
		skip[p] = struct{}{}
	}

	body := mustEncodeRateLimited(limiter)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if limiter.IsRateLimited(r) {
				metrics.RecordRateLimitDecision(metrics.DecisionLimited)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write(body)
				return
			}

			metrics.RecordRateLimitDecision(metrics.DecisionAllowed)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMessage renders the human-readable rejection message for a limiter.
func RateLimitMessage(limiter *ratelimit.Limiter) string {
	seconds := int64(math.Round(limiter.Window().Seconds()))
	return fmt.Sprintf("Too many requests. Limit: %d requests per %d seconds", limiter.MaxRequests(), seconds)
}

// the limiter's settings are fixed, so the body is encoded once
func mustEncodeRateLimited(limiter *ratelimit.Limiter) []byte {
	body, err := json.Marshal(RateLimitedResponse{
		Error:   "Rate limit exceeded",
		Message: RateLimitMessage(limiter),
	})
	if err != nil {
		panic(fmt.Sprintf("encode rate limit response: %v", err))
	}
	return append(body, '\n')
}
