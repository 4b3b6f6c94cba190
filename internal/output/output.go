// Package output renders sweep results as tables, JSON, or Markdown.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders per-domain batch results.
type Formatter interface {
	FormatDomain(result *core.DomainBatchResult) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// FormatUnified renders a full sweep result using the requested format.
// JSON marshals the aggregate as one document; the other formats join
// the per-domain sections and append an overall summary.
func FormatUnified(format Format, result *core.UnifiedBatchResult) (string, error) {
	if result == nil {
		return "", nil
	}

	if format == FormatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	formatter := NewFormatter(format)
	rendered := make([]string, 0, len(result.Names)+1)
	for _, domain := range result.Domains() {
		value, err := formatter.FormatDomain(domain)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		rendered = append(rendered, value)
	}

	if summary := unifiedSummary(result); summary != "" {
		rendered = append(rendered, summary)
	}

	return strings.Join(rendered, "\n\n"), nil
}

func unifiedSummary(result *core.UnifiedBatchResult) string {
	overall := result.OverallProgress
	summary := fmt.Sprintf("Checked %d of %d combinations across %d domains",
		overall.Completed, overall.Total, len(result.Names))
	if overall.Failed > 0 {
		summary += fmt.Sprintf(" (%d failed)", overall.Failed)
	}
	if result.Cancelled {
		summary += " [cancelled]"
	}
	return summary
}
