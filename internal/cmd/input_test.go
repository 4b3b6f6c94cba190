package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tldsweep/tldsweep/internal/config"
)

func TestNormalizeTLDs(t *testing.T) {
	input := []string{".com", " IO ", "dev,app", ""}
	result := normalizeTLDs(input)
	if len(result) != 4 {
		t.Fatalf("expected 4 tlds, got %d: %v", len(result), result)
	}
	want := []string{"com", "io", "dev", "app"}
	for i, tld := range want {
		if result[i] != tld {
			t.Fatalf("expected %s at %d, got %s", tld, i, result[i])
		}
	}
}

func TestResolveTLDsDeduplicatesAndMergesSet(t *testing.T) {
	tlds, err := resolveTLDs([]string{"com", "io"}, "minimal", &config.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The minimal set only adds com, which is already present.
	if len(tlds) != 2 {
		t.Fatalf("expected 2 tlds, got %v", tlds)
	}
}

func TestResolveTLDsRequiresInput(t *testing.T) {
	if _, err := resolveTLDs(nil, "", &config.Config{}); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestResolveTLDsUnknownSet(t *testing.T) {
	if _, err := resolveTLDs(nil, "does-not-exist", &config.Config{}); err == nil {
		t.Fatal("expected error for unknown set")
	}
}

func TestResolveNamesPositional(t *testing.T) {
	names, err := resolveNames([]string{" Alpha ", "beta"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestResolveNamesRejectsInvalid(t *testing.T) {
	if _, err := resolveNames([]string{"-bad-"}, ""); err == nil {
		t.Fatal("expected error for invalid name")
	}
	if _, err := resolveNames(nil, ""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestResolveNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	content := "# comment\nalpha\n\nBeta\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write names file: %v", err)
	}

	names, err := resolveNames(nil, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("unexpected names: %v", names)
	}

	if _, err := resolveNames([]string{"alpha"}, path); err == nil {
		t.Fatal("expected error when combining positional names with --names-file")
	}
}

func TestCheckConfigFromApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.Check.Timeout = 0
	cfg.Check.Retries = 4
	cfg.Check.MaxConcurrency = 7

	engineCfg := checkConfigFromApp(cfg)
	if engineCfg.Retries != 4 {
		t.Fatalf("expected 4 retries, got %d", engineCfg.Retries)
	}
	if engineCfg.MaxConcurrency != 7 {
		t.Fatalf("expected concurrency 7, got %d", engineCfg.MaxConcurrency)
	}
	if engineCfg.Timeout <= 0 {
		t.Fatalf("expected default timeout, got %s", engineCfg.Timeout)
	}
}

func TestBuildCheckerAssemblesChain(t *testing.T) {
	cfg := &config.Config{}
	cfg.Lookup.RDAP.Enabled = true
	cfg.Lookup.Whois.Enabled = true
	cfg.Cache.Enabled = false

	checker := buildChecker(cfg, nil, true)
	if checker == nil || checker.Lookup == nil {
		t.Fatal("expected checker with a lookup chain")
	}
}
