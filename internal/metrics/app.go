// Package metrics emits tldsweep's application metrics through the
// shared telemetry system. All helpers are no-ops until metrics are
// initialized.
package metrics

import (
	"time"

	"github.com/tldsweep/tldsweep/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Check metrics
	ChecksTotal         = "sweep_checks_total"
	RetriesTotal        = "sweep_retries_total"
	SweepsTotal         = "sweep_runs_total"
	SweepDuration       = "sweep_run_duration_ms"
	SweepsCancelled     = "sweep_runs_cancelled_total"
	LookupRequestsTotal = "sweep_lookup_requests_total"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordCheck records one completed (name, tld) check.
func RecordCheck(tld string, status string, attempts int) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(
		ChecksTotal,
		1,
		map[string]string{
			"tld":    tld,
			"status": status,
		},
	)
	for i := 1; i < attempts; i++ {
		_ = observability.TelemetrySystem.Counter(
			RetriesTotal,
			1,
			map[string]string{"tld": tld},
		)
	}
}

// RecordSweep records one finished sweep run.
func RecordSweep(domains, tlds int, cancelled bool, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(SweepsTotal, 1, nil)
	if cancelled {
		_ = observability.TelemetrySystem.Counter(SweepsCancelled, 1, nil)
	}
	_ = observability.TelemetrySystem.Histogram(
		SweepDuration,
		duration,
		nil,
	)
}

// RecordLookup records a backend lookup request and its outcome.
func RecordLookup(source string, success bool) {
	if observability.TelemetrySystem == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	_ = observability.TelemetrySystem.Counter(
		LookupRequestsTotal,
		1,
		map[string]string{
			"source":  source,
			"outcome": outcome,
		},
	)
}

// SetServerStartTime records the server start time (Unix timestamp).
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds.
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}
