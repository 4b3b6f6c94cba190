package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/metrics"
	"github.com/tldsweep/tldsweep/internal/observability"
)

func verdictFunc(status core.Status, source string) Func {
	return func(context.Context, string, string, time.Duration) (Verdict, error) {
		return Verdict{Status: status, Source: source, CheckedAt: time.Now()}, nil
	}
}

func errorFunc(message string) Func {
	return func(context.Context, string, string, time.Duration) (Verdict, error) {
		return Verdict{}, errors.New(message)
	}
}

func TestChainFirstVerdictWins(t *testing.T) {
	var secondCalled bool
	chain := NewChain(
		verdictFunc(core.StatusTaken, "rdap"),
		Func(func(context.Context, string, string, time.Duration) (Verdict, error) {
			secondCalled = true
			return Verdict{}, nil
		}),
	)

	verdict, err := chain.Lookup(context.Background(), "example", "com", time.Second)
	require.NoError(t, err)
	require.Equal(t, core.StatusTaken, verdict.Status)
	require.Equal(t, "rdap", verdict.Source)
	require.False(t, secondCalled)
}

func TestChainFallsThroughOnError(t *testing.T) {
	chain := NewChain(
		errorFunc("no rdap server for tld test"),
		verdictFunc(core.StatusAvailable, "whois"),
	)

	verdict, err := chain.Lookup(context.Background(), "example", "test", time.Second)
	require.NoError(t, err)
	require.Equal(t, core.StatusAvailable, verdict.Status)
	require.Equal(t, "whois", verdict.Source)
}

func TestChainReturnsLastError(t *testing.T) {
	chain := NewChain(
		errorFunc("rdap server error: status 503"),
		errorFunc("whois query failed: connection refused"),
	)

	_, err := chain.Lookup(context.Background(), "example", "com", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "whois")
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain()
	_, err := chain.Lookup(context.Background(), "example", "com", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no lookup server")
}

func TestChainStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(verdictFunc(core.StatusTaken, "rdap"))
	_, err := chain.Lookup(ctx, "example", "com", time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChainDropsNilServices(t *testing.T) {
	chain := NewChain(nil, verdictFunc(core.StatusTaken, "rdap"), nil)
	require.Len(t, chain.Services, 1)
}

func TestChainRecordsLookupMetrics(t *testing.T) {
	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: true, Emitter: collector})
	require.NoError(t, err)

	originalTelemetry := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() {
		observability.TelemetrySystem = originalTelemetry
	})

	chain := NewChain(
		errorFunc("rdap server error: status 503"),
		verdictFunc(core.StatusAvailable, "whois"),
	)

	verdict, err := chain.Lookup(context.Background(), "example", "com", time.Second)
	require.NoError(t, err)
	require.Equal(t, core.StatusAvailable, verdict.Status)

	require.Equal(t, 2, collector.CountMetricsByName(metrics.LookupRequestsTotal),
		"expected one lookup metric per attempted backend")
}
