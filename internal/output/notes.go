package output

import (
	"strconv"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

func displayDomain(result *core.CheckResult) string {
	if result == nil {
		return ""
	}
	name := strings.TrimSpace(result.Name)
	tld := strings.TrimSpace(result.TLD)
	if name == "" {
		if tld == "" {
			return ""
		}
		return "." + tld
	}
	if tld == "" {
		return name
	}
	return name + "." + tld
}

func statusLabel(result *core.CheckResult) string {
	if result == nil {
		return "unknown"
	}
	switch result.Status {
	case core.StatusAvailable:
		return "available"
	case core.StatusTaken:
		return "taken"
	case core.StatusFailed:
		return "failed"
	default:
		return string(result.Status)
	}
}

func attemptsLabel(result *core.CheckResult) string {
	if result == nil || result.Attempts == 0 {
		return ""
	}
	return strconv.Itoa(result.Attempts)
}

func formatNotes(result *core.CheckResult) string {
	if result == nil {
		return ""
	}
	return strings.TrimSpace(result.ErrorMessage)
}

func availableCount(result *core.DomainBatchResult) int {
	count := 0
	for _, r := range result.Results {
		if r != nil && r.Status == core.StatusAvailable {
			count++
		}
	}
	return count
}
