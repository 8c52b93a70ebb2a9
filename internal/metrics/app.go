package metrics

import (
	"strconv"
	"time"

	"github.com/staffsearch/staffsearch/internal/observability"
)

// Application-level metric names following Prometheus conventions
const (
	// Rate limiter
	RateLimitDecisionsTotal      = "ratelimit_decisions_total"
	RateLimitTrackedClients      = "ratelimit_tracked_clients"
	RateLimitSweepsTotal         = "ratelimit_sweeps_total"
	RateLimitEvictedClientsTotal = "ratelimit_evicted_clients_total"

	// Employee search
	SearchRequestsTotal = "search_requests_total"
	SearchDuration      = "search_duration_ms"
	SearchResultsTotal  = "search_results_total"

	// Health checks
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle
	ServerStartTime = "app_server_start_time_seconds"
)

// Rate limit decision results
const (
	DecisionAllowed = "allowed"
	DecisionLimited = "limited"
)

// RecordRateLimitDecision counts one limiter decision.
func RecordRateLimitDecision(result string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(
		RateLimitDecisionsTotal,
		1,
		map[string]string{"result": result},
	)
}

// SetTrackedClients reports how many client identities the limiter holds.
func SetTrackedClients(count int) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(RateLimitTrackedClients, float64(count), nil)
}

// RecordSweep records a full limiter sweep and the identities it evicted.
func RecordSweep(evicted, remaining int) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(RateLimitSweepsTotal, 1, nil)
	if evicted > 0 {
		_ = observability.TelemetrySystem.Counter(RateLimitEvictedClientsTotal, float64(evicted), nil)
	}
	_ = observability.TelemetrySystem.Gauge(RateLimitTrackedClients, float64(remaining), nil)
}

// RecordSearch records an employee search, its latency and the number of matches.
func RecordSearch(success bool, duration time.Duration, total int) {
	if observability.TelemetrySystem == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}
	_ = observability.TelemetrySystem.Counter(
		SearchRequestsTotal,
		1,
		map[string]string{"status": status},
	)
	_ = observability.TelemetrySystem.Histogram(SearchDuration, duration, nil)
	if success {
		_ = observability.TelemetrySystem.Gauge(
			SearchResultsTotal,
			float64(total),
			map[string]string{"bucket": resultBucket(total)},
		)
	}
}

// resultBucket keeps the result-size label low cardinality.
func resultBucket(total int) string {
	switch {
	case total == 0:
		return "0"
	case total <= 10:
		return "1-10"
	case total <= 100:
		return "11-100"
	case total <= 1000:
		return "101-1000"
	default:
		return "1000+"
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(
		HealthCheckTotal,
		1,
		map[string]string{
			"check":   checkName,
			"healthy": strconv.FormatBool(healthy),
		},
	)
	_ = observability.TelemetrySystem.Histogram(
		HealthCheckDuration,
		duration,
		map[string]string{"check": checkName},
	)
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(ServerStartTime, float64(timestamp), nil)
}
