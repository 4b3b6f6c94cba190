package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func sampleDomainResult() *core.DomainBatchResult {
	available := &core.CheckResult{
		Name:     "delta",
		TLD:      "com",
		Status:   core.StatusAvailable,
		Attempts: 1,
	}
	taken := &core.CheckResult{
		Name:     "delta",
		TLD:      "io",
		Status:   core.StatusTaken,
		Attempts: 1,
	}
	failed := &core.CheckResult{
		Name:         "delta",
		TLD:          "dev",
		Status:       core.StatusFailed,
		ErrorMessage: "lookup timed out",
		Attempts:     3,
	}
	return &core.DomainBatchResult{
		Name:       "delta",
		Results:    []*core.CheckResult{available, taken, failed},
		Successful: []*core.CheckResult{available, taken},
		Failed:     []*core.CheckResult{failed},
	}
}

func TestTableFormatter(t *testing.T) {
	rendered, err := (&TableFormatter{}).FormatDomain(sampleDomainResult())
	require.NoError(t, err)
	require.Contains(t, rendered, "delta.com")
	require.Contains(t, rendered, "available")
	require.Contains(t, rendered, "lookup timed out")
	require.Contains(t, rendered, "1/3 available, 1 failed")
}

func TestMarkdownFormatter(t *testing.T) {
	rendered, err := (&MarkdownFormatter{}).FormatDomain(sampleDomainResult())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rendered, "## delta availability"))
	require.Contains(t, rendered, "| delta.io | taken | 1 |")
	require.Contains(t, rendered, "**Summary**: 1/3 available, 1 failed")
}

func TestJSONFormatter(t *testing.T) {
	rendered, err := (&JSONFormatter{Indent: true}).FormatDomain(sampleDomainResult())
	require.NoError(t, err)
	require.Contains(t, rendered, "\"name\": \"delta\"")
	require.Contains(t, rendered, "\"status\": \"failed\"")
}

func TestFormattersNilResult(t *testing.T) {
	for _, formatter := range []Formatter{&TableFormatter{}, &MarkdownFormatter{}, &JSONFormatter{}} {
		rendered, err := formatter.FormatDomain(nil)
		require.NoError(t, err)
		require.Empty(t, rendered)
	}
}

func TestFormatUnified(t *testing.T) {
	domain := sampleDomainResult()
	unified := &core.UnifiedBatchResult{
		Names:           []string{"delta"},
		TLDs:            []string{"com", "io", "dev"},
		ResultsByDomain: map[string]*core.DomainBatchResult{"delta": domain},
		OverallProgress: core.OverallProgress{
			Progress:     core.Progress{Total: 3, Completed: 3, Failed: 1},
			TotalDomains: 1,
		},
	}

	rendered, err := FormatUnified(FormatTable, unified)
	require.NoError(t, err)
	require.Contains(t, rendered, "delta.com")
	require.Contains(t, rendered, "Checked 3 of 3 combinations across 1 domains (1 failed)")

	unified.Cancelled = true
	rendered, err = FormatUnified(FormatMarkdown, unified)
	require.NoError(t, err)
	require.Contains(t, rendered, "[cancelled]")

	rendered, err = FormatUnified(FormatJSON, unified)
	require.NoError(t, err)
	require.Contains(t, rendered, "\"results_by_domain\"")
	require.Contains(t, rendered, "\"cancelled\": true")
}
