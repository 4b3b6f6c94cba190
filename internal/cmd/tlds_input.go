package cmd

import (
	"errors"
	"strings"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
)

// resolveTLDs merges explicit --tlds values with a named TLD set,
// preserving input order and dropping duplicates.
func resolveTLDs(values []string, setName string, cfg *config.Config) ([]string, error) {
	tlds := normalizeTLDs(values)

	if name := strings.TrimSpace(setName); name != "" {
		var userSets []core.TLDSet
		if cfg != nil && cfg.TLDSetsPath != "" {
			loaded, err := core.LoadTLDSets(cfg.TLDSetsPath)
			if err != nil {
				return nil, err
			}
			userSets = loaded
		}

		set, err := core.ResolveTLDSet(name, userSets)
		if err != nil {
			return nil, err
		}
		tlds = append(tlds, normalizeTLDs(set.TLDs)...)
	}

	tlds = dedupe(tlds)
	if len(tlds) == 0 {
		return nil, errors.New("at least one TLD or a --tld-set is required")
	}
	return tlds, nil
}

func normalizeTLDs(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			tld := core.NormalizeTLD(part)
			if tld == "" {
				continue
			}
			result = append(result, tld)
		}
	}
	return result
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
