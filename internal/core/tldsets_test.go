package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindBuiltInTLDSet(t *testing.T) {
	set, ok := FindBuiltInTLDSet("Startup")
	require.True(t, ok)
	require.Equal(t, "startup", set.Name)
	require.Contains(t, set.TLDs, "com")

	_, ok = FindBuiltInTLDSet("nope")
	require.False(t, ok)

	_, ok = FindBuiltInTLDSet("")
	require.False(t, ok)
}

func TestLoadTLDSets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sets.yaml")
	content := `sets:
  - name: Nordic
    description: Nordic country codes
    tlds: [".SE", "no", "dk"]
  - name: ""
    tlds: ["com"]
  - name: empty
    tlds: []
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	sets, err := LoadTLDSets(path)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Equal(t, "nordic", sets[0].Name)
	require.Equal(t, []string{"se", "no", "dk"}, sets[0].TLDs)
}

func TestLoadTLDSetsMissingFile(t *testing.T) {
	_, err := LoadTLDSets(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestResolveTLDSetPrefersUserSets(t *testing.T) {
	userSets := []TLDSet{{Name: "startup", TLDs: []string{"xyz"}}}

	set, err := ResolveTLDSet("startup", userSets)
	require.NoError(t, err)
	require.Equal(t, []string{"xyz"}, set.TLDs)

	set, err = ResolveTLDSet("minimal", userSets)
	require.NoError(t, err)
	require.Equal(t, []string{"com"}, set.TLDs)

	_, err = ResolveTLDSet("unknown", userSets)
	require.Error(t, err)
}
