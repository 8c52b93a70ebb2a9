package metrics

import (
	"testing"
	"time"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsearch/staffsearch/internal/observability"
)

func setupTelemetry(t *testing.T) *telemetrytesting.FakeCollector {
	t.Helper()

	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{
		Enabled: true,
		Emitter: collector,
	})
	require.NoError(t, err)

	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() {
		observability.TelemetrySystem = original
	})

	return collector
}

func TestRateLimitMetrics(t *testing.T) {
	collector := setupTelemetry(t)

	RecordRateLimitDecision(DecisionAllowed)
	RecordRateLimitDecision(DecisionLimited)
	SetTrackedClients(3)

	assert.Greater(t, collector.CountMetricsByName(RateLimitDecisionsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(RateLimitTrackedClients), 0)
}

func TestRecordSweep(t *testing.T) {
	collector := setupTelemetry(t)

	RecordSweep(0, 5)
	assert.Greater(t, collector.CountMetricsByName(RateLimitSweepsTotal), 0)
	assert.Zero(t, collector.CountMetricsByName(RateLimitEvictedClientsTotal))

	RecordSweep(2, 3)
	assert.Greater(t, collector.CountMetricsByName(RateLimitSweepsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(RateLimitEvictedClientsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(RateLimitTrackedClients), 0)
}

func TestRecordSearch(t *testing.T) {
	collector := setupTelemetry(t)

	RecordSearch(true, 3*time.Millisecond, 42)
	RecordSearch(false, time.Millisecond, 0)

	assert.Greater(t, collector.CountMetricsByName(SearchRequestsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(SearchDuration), 0)
	assert.Greater(t, collector.CountMetricsByName(SearchResultsTotal), 0)
}

func TestResultBucket(t *testing.T) {
	assert.Equal(t, "0", resultBucket(0))
	assert.Equal(t, "1-10", resultBucket(10))
	assert.Equal(t, "11-100", resultBucket(11))
	assert.Equal(t, "101-1000", resultBucket(1000))
	assert.Equal(t, "1000+", resultBucket(1001))
}

func TestErrorMetrics(t *testing.T) {
	collector := setupTelemetry(t)

	RecordError("INVALID_INPUT", 400)
	RecordErrorByEndpoint("/api/v1/employees/search", "INVALID_INPUT")
	RecordPanic()

	assert.Greater(t, collector.CountMetricsByName(ErrorsTotalName), 0)
	assert.Greater(t, collector.CountMetricsByName(ErrorsByEndpointName), 0)
	assert.Greater(t, collector.CountMetricsByName(PanicsTotalName), 0)
}

func TestMetricsNoopWithoutTelemetry(t *testing.T) {
	original := observability.TelemetrySystem
	observability.TelemetrySystem = nil
	t.Cleanup(func() { observability.TelemetrySystem = original })

	assert.NotPanics(t, func() {
		RecordRateLimitDecision(DecisionLimited)
		RecordSweep(1, 1)
		RecordSearch(true, time.Millisecond, 1)
		RecordHealthCheck("store", true, time.Millisecond)
		SetServerStartTime(time.Now().Unix())
	})
}
