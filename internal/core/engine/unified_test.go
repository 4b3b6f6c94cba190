package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
)

func TestCheckDomainsCoversEveryPair(t *testing.T) {
	svc := newScriptedLookup()
	svc.on("alpha.com", lookupStep{status: core.StatusTaken})
	svc.on("beta.net", lookupStep{err: errors.New("lookup beta.net: NXDOMAIN")})

	checker := newTestChecker(svc)
	names := []string{"alpha", "beta", "gamma"}
	tlds := []string{"com", "net"}

	unified := checker.CheckDomains(context.Background(), names, tlds, Config{Retries: 0})

	require.False(t, unified.Cancelled)
	require.Equal(t, names, unified.Names)
	require.Len(t, unified.ResultsByDomain, 3)
	require.Equal(t, 6, unified.TotalChecks())

	for _, name := range names {
		batch := unified.ResultsByDomain[name]
		require.NotNil(t, batch)
		require.Len(t, batch.Results, 2)
		require.Equal(t, name, batch.Name)
	}

	require.Equal(t, core.StatusTaken, unified.ResultsByDomain["alpha"].Results[0].Status)
	require.Equal(t, core.StatusFailed, unified.ResultsByDomain["beta"].Results[1].Status)

	overall := unified.OverallProgress
	require.Equal(t, 6, overall.Total)
	require.Equal(t, 6, overall.Completed)
	require.Equal(t, 0, overall.Remaining)
	require.Equal(t, 100, overall.Percentage)
	require.Equal(t, 1, overall.Failed)
	require.Equal(t, 3, overall.DomainsCompleted)
	require.Equal(t, 100, overall.OverallPercentage)
}

func TestCheckDomainsDomainsPreserveInputOrder(t *testing.T) {
	checker := newTestChecker(newScriptedLookup())
	unified := checker.CheckDomains(context.Background(), []string{"zeta", "alpha", "mid"}, []string{"com"}, DefaultConfig())

	ordered := unified.Domains()
	require.Len(t, ordered, 3)
	require.Equal(t, "zeta", ordered[0].Name)
	require.Equal(t, "alpha", ordered[1].Name)
	require.Equal(t, "mid", ordered[2].Name)
}

func TestCheckDomainsOverallProgressAccumulates(t *testing.T) {
	checker := newTestChecker(newScriptedLookup())

	var mu sync.Mutex
	var seen []core.OverallProgress
	cfg := Config{
		MaxConcurrency: 1,
		OnOverallProgress: func(p core.OverallProgress) {
			mu.Lock()
			seen = append(seen, p)
			mu.Unlock()
		},
	}

	names := []string{"alpha", "beta"}
	tlds := []string{"com", "net", "io"}
	checker.CheckDomains(context.Background(), names, tlds, cfg)

	require.NotEmpty(t, seen)

	prev := -1
	for _, p := range seen {
		require.Equal(t, 6, p.Total)
		require.GreaterOrEqual(t, p.Completed, prev)
		require.Equal(t, p.Total-p.Completed, p.Remaining)
		require.Equal(t, 2, p.TotalDomains)
		prev = p.Completed
	}

	last := seen[len(seen)-1]
	require.Equal(t, 6, last.Completed)
	require.Equal(t, 100, last.Percentage)
	require.Equal(t, 2, last.DomainsCompleted)

	// The second domain's updates start from the first domain's offset.
	var betaUpdates []core.OverallProgress
	for _, p := range seen {
		if p.CurrentDomain == "beta" && p.DomainsCompleted == 1 {
			betaUpdates = append(betaUpdates, p)
		}
	}
	require.NotEmpty(t, betaUpdates)
	require.GreaterOrEqual(t, betaUpdates[0].Completed, 3)
}

func TestCheckDomainsEmptyInputs(t *testing.T) {
	checker := newTestChecker(newScriptedLookup())

	cfg := Config{
		OnOverallProgress: func(core.OverallProgress) {
			t.Fatal("no progress should be emitted for an empty run")
		},
	}

	unified := checker.CheckDomains(context.Background(), nil, []string{"com"}, cfg)
	require.Empty(t, unified.ResultsByDomain)
	require.Equal(t, 0, unified.OverallProgress.Total)
	require.Equal(t, 0, unified.OverallProgress.Percentage)

	unified = checker.CheckDomains(context.Background(), []string{"alpha"}, nil, cfg)
	require.Empty(t, unified.ResultsByDomain)
	require.Equal(t, 0, unified.OverallProgress.Total)
}

func TestCheckDomainsCancelledBeforeStart(t *testing.T) {
	token := NewCancelToken()
	token.Cancel()

	checker := newTestChecker(newScriptedLookup())
	unified := checker.CheckDomains(context.Background(), []string{"alpha", "beta"}, []string{"com"}, Config{Token: token})

	require.True(t, unified.Cancelled)
	require.Empty(t, unified.ResultsByDomain)
}

func TestCheckDomainsCancelledBetweenDomains(t *testing.T) {
	token := NewCancelToken()

	svc := newScriptedLookup()
	checker := newTestChecker(svc)

	cfg := Config{
		Token: token,
		OnProgress: func(core.Progress) {
			// Fires during the first domain's batch; later domains
			// must not start.
			token.Cancel()
		},
	}

	unified := checker.CheckDomains(context.Background(), []string{"alpha", "beta", "gamma"}, []string{"com"}, cfg)

	require.True(t, unified.Cancelled)
	require.Len(t, unified.ResultsByDomain, 1)
	require.NotNil(t, unified.ResultsByDomain["alpha"])
	require.Equal(t, 0, svc.attemptCount("beta.com"))
	require.Equal(t, 0, svc.attemptCount("gamma.com"))
}

func TestCheckDomainsNormalizesTLDsOnce(t *testing.T) {
	svc := newScriptedLookup()
	svc.on("alpha.dev", lookupStep{status: core.StatusTaken})

	checker := newTestChecker(svc)
	unified := checker.CheckDomains(context.Background(), []string{"alpha"}, []string{".DEV"}, DefaultConfig())

	require.Equal(t, []string{"dev"}, unified.TLDs)
	require.Equal(t, "dev", unified.ResultsByDomain["alpha"].Results[0].TLD)
}
