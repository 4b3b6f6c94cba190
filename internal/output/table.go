package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tldsweep/tldsweep/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatDomain renders a per-domain batch result as a table.
func (f *TableFormatter) FormatDomain(result *core.DomainBatchResult) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	// StyleRounded upper-cases footer cells; keep the summary as written.
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(result.Name)
	t.AppendHeader(table.Row{"Domain", "Status", "Attempts", "Notes"})

	for _, r := range result.Results {
		if r == nil {
			continue
		}
		t.AppendRow(table.Row{
			displayDomain(r),
			statusLabel(r),
			attemptsLabel(r),
			formatNotes(r),
		})
	}

	if len(result.Results) > 0 {
		summary := fmt.Sprintf("%d/%d available", availableCount(result), len(result.Results))
		if failed := len(result.Failed); failed > 0 {
			summary += fmt.Sprintf(", %d failed", failed)
		}
		t.AppendFooter(table.Row{"", summary, "", ""})
	}

	return t.Render(), nil
}
