package output

import (
	"fmt"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatDomain renders a per-domain batch result as Markdown.
func (f *MarkdownFormatter) FormatDomain(result *core.DomainBatchResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s availability\n\n", escapeMarkdownCell(result.Name)))
	sb.WriteString("| Domain | Status | Attempts | Notes |\n")
	sb.WriteString("|--------|--------|----------|-------|\n")

	for _, r := range result.Results {
		if r == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(displayDomain(r)),
			escapeMarkdownCell(statusLabel(r)),
			escapeMarkdownCell(attemptsLabel(r)),
			escapeMarkdownCell(formatNotes(r)),
		))
	}

	if len(result.Results) > 0 {
		summary := fmt.Sprintf("%d/%d available", availableCount(result), len(result.Results))
		if failed := len(result.Failed); failed > 0 {
			summary += fmt.Sprintf(", %d failed", failed)
		}
		sb.WriteString(fmt.Sprintf("\n**Summary**: %s\n", summary))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
