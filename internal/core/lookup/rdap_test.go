package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openrdap/rdap"
	"github.com/stretchr/testify/require"
)

func TestStaticServersNormalizeTLD(t *testing.T) {
	servers := StaticServers{"com": {"https://rdap.verisign.com/com/v1"}}

	got, err := servers.RDAPServers(context.Background(), ".COM")
	require.NoError(t, err)
	require.Equal(t, []string{"https://rdap.verisign.com/com/v1"}, got)

	got, err = servers.RDAPServers(context.Background(), "zz")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRDAPServiceServerResolution(t *testing.T) {
	svc := &RDAPService{
		Servers: StaticServers{"test": {"https://rdap.example/test"}},
	}

	servers, err := svc.servers(context.Background(), "test")
	require.NoError(t, err)
	require.Equal(t, []string{"https://rdap.example/test"}, servers)

	// Built-in overrides route app and dev to known-good servers even
	// when a source is configured.
	servers, err = svc.servers(context.Background(), "dev")
	require.NoError(t, err)
	require.Equal(t, defaultRDAPOverrides["dev"], servers)
}

func TestRDAPServiceCustomOverrides(t *testing.T) {
	svc := &RDAPService{
		Overrides: map[string][]string{"io": {"https://rdap.example/io"}},
	}

	servers, err := svc.servers(context.Background(), "io")
	require.NoError(t, err)
	require.Equal(t, []string{"https://rdap.example/io"}, servers)

	// A custom override map replaces the defaults entirely.
	servers, err = svc.servers(context.Background(), "dev")
	require.NoError(t, err)
	require.Equal(t, defaultRDAPServers["dev"], servers)
}

func TestRDAPServiceUnknownTLD(t *testing.T) {
	svc := &RDAPService{Servers: StaticServers{}}

	_, err := svc.Lookup(context.Background(), "example", "zz", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no rdap server for tld zz")
}

func TestIsNotFound(t *testing.T) {
	require.False(t, isNotFound(nil))
	require.False(t, isNotFound(errors.New("plain error")))
	require.False(t, isNotFound(&rdap.ClientError{}))
	require.True(t, isNotFound(&rdap.ClientError{Type: rdap.ObjectDoesNotExist}))
}

func TestResponseStatusNilSafe(t *testing.T) {
	require.Equal(t, 0, responseStatus(nil))
	require.Equal(t, 0, responseStatus(&rdap.Response{}))
}

func TestRetryAfterNilSafe(t *testing.T) {
	require.Equal(t, time.Duration(0), retryAfter(nil))
	require.Equal(t, time.Duration(0), retryAfter(&rdap.Response{}))
}
