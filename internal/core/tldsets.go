package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TLDSet names a reusable list of TLDs to sweep.
type TLDSet struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	TLDs        []string `json:"tlds" yaml:"tlds"`
}

// BuiltInTLDSets provides default sets bundled with tldsweep.
var BuiltInTLDSets = []TLDSet{
	{
		Name:        "startup",
		Description: "Balanced set for common startup naming needs",
		TLDs:        []string{"com", "io", "dev", "app"},
	},
	{
		Name:        "minimal",
		Description: "Quick .com-only availability scan",
		TLDs:        []string{"com"},
	},
	{
		Name:        "website",
		Description: "Traditional website domains",
		TLDs:        []string{"com", "org", "net"},
	},
	{
		Name:        "developer",
		Description: "Developer tool naming across tech TLDs",
		TLDs:        []string{"com", "io", "dev", "app", "sh", "org", "net"},
	},
	{
		Name:        "premium",
		Description: "Short premium TLDs favoured for brandable names",
		TLDs:        []string{"com", "io", "ai", "co", "gg", "so", "to", "sh"},
	},
}

// FindBuiltInTLDSet looks up a built-in set by name.
func FindBuiltInTLDSet(name string) (*TLDSet, bool) {
	needle := strings.TrimSpace(strings.ToLower(name))
	if needle == "" {
		return nil, false
	}

	for _, set := range BuiltInTLDSets {
		if strings.EqualFold(set.Name, needle) {
			copied := set
			return &copied, true
		}
	}

	return nil, false
}

// LoadTLDSets reads user-defined TLD sets from a YAML file.
func LoadTLDSets(path string) ([]TLDSet, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("read tld sets: %w", err)
	}

	var doc struct {
		Sets []TLDSet `yaml:"sets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tld sets: %w", err)
	}

	sets := make([]TLDSet, 0, len(doc.Sets))
	for _, set := range doc.Sets {
		set.Name = strings.TrimSpace(strings.ToLower(set.Name))
		if set.Name == "" || len(set.TLDs) == 0 {
			continue
		}
		for i, tld := range set.TLDs {
			set.TLDs[i] = NormalizeTLD(tld)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// ResolveTLDSet finds a named set among user sets first, then built-ins.
func ResolveTLDSet(name string, userSets []TLDSet) (*TLDSet, error) {
	needle := strings.TrimSpace(strings.ToLower(name))
	for _, set := range userSets {
		if set.Name == needle {
			copied := set
			return &copied, nil
		}
	}
	if set, ok := FindBuiltInTLDSet(needle); ok {
		return set, nil
	}
	return nil, fmt.Errorf("tld set %q not found", name)
}
