package lookup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
)

func TestInterpretWhoisTaken(t *testing.T) {
	svc := &WhoisService{}

	body := `Domain Name: EXAMPLE.COM
Registrar: Example Registrar, Inc.
Creation Date: 1995-08-14T04:00:00Z
Name Server: A.IANA-SERVERS.NET`

	status, ok := svc.interpret(body)
	require.True(t, ok)
	require.Equal(t, core.StatusTaken, status)
}

func TestInterpretWhoisAvailable(t *testing.T) {
	svc := &WhoisService{}

	cases := []string{
		`No match for "UNREGISTERED-BRAND.COM".`,
		"Domain not found.",
		"Status: free",
		"The queried object does not exist: no entries found",
	}
	for _, body := range cases {
		status, ok := svc.interpret(body)
		require.True(t, ok, body)
		require.Equal(t, core.StatusAvailable, status, body)
	}
}

func TestInterpretWhoisTakenWinsOverAvailable(t *testing.T) {
	svc := &WhoisService{}

	// Some registries embed "not found" disclaimers in full records.
	body := `Registrar: Example Registrar
Errors are reported as "not found" in this service.`

	status, ok := svc.interpret(body)
	require.True(t, ok)
	require.Equal(t, core.StatusTaken, status)
}

func TestInterpretWhoisPremiumIsTaken(t *testing.T) {
	svc := &WhoisService{}

	status, ok := svc.interpret("This premium domain is available for purchase via our partner.")
	require.True(t, ok)
	require.Equal(t, core.StatusTaken, status)
}

func TestInterpretWhoisAmbiguous(t *testing.T) {
	svc := &WhoisService{}

	_, ok := svc.interpret("% Terms of use: queries are throttled per client")
	require.False(t, ok)
}

func TestInterpretWhoisCustomPatterns(t *testing.T) {
	svc := &WhoisService{AvailablePatterns: []string{"tillgänglig"}}

	status, ok := svc.interpret("Domänen är tillgänglig")
	require.True(t, ok)
	require.Equal(t, core.StatusAvailable, status)
}
