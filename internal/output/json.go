package output

import (
	"encoding/json"

	"github.com/tldsweep/tldsweep/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatDomain renders a per-domain batch result as JSON.
func (f *JSONFormatter) FormatDomain(result *core.DomainBatchResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
