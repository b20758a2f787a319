// SPDX-License-Identifier: Apache-2.0

package apt

import (
	"context"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

const gnomeShellPolicy = `gnome-shell:
  Installed: 46.2-1
  Candidate: 46.3-2
  Version table:
     46.3-2 990
        990 http://deb.debian.org/debian testing/main amd64 Packages
 *** 46.2-1 100
        100 /var/lib/dpkg/status
`

const uninstalledPolicy = `gnome-shell:
  Installed: (none)
  Candidate: 46.3-2
  Version table:
     46.3-2 990
        990 http://deb.debian.org/debian testing/main amd64 Packages
`

const noCandidatePolicy = `gnome-shell:
  Installed: (none)
  Candidate: (none)
  Version table:
`

func cannedRunner(t *testing.T, output string) CommandRunner {
	t.Helper()

	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		require.Equal(t, "apt-cache", name)
		require.Equal(t, "policy", args[0])
		return []byte(output), nil
	}
}

func TestPolicyClient_CandidateVersion(t *testing.T) {
	req := require.New(t)

	client := NewPolicyClient(WithCommandRunner(cannedRunner(t, gnomeShellPolicy)))

	version, err := client.CandidateVersion(context.Background(), "gnome-shell")
	req.NoError(err)
	req.Equal("46.3-2", version)
}

func TestPolicyClient_InstalledVersion(t *testing.T) {
	req := require.New(t)

	client := NewPolicyClient(WithCommandRunner(cannedRunner(t, gnomeShellPolicy)))

	version, err := client.InstalledVersion(context.Background(), "gnome-shell")
	req.NoError(err)
	req.Equal("46.2-1", version)
}

func TestPolicyClient_InstalledNoneIsNotFound(t *testing.T) {
	req := require.New(t)

	client := NewPolicyClient(WithCommandRunner(cannedRunner(t, uninstalledPolicy)))

	_, err := client.InstalledVersion(context.Background(), "gnome-shell")
	req.Error(err)
	req.True(errorx.IsOfType(err, NoCandidateError))

	// The candidate is still resolvable for the same package.
	version, err := client.CandidateVersion(context.Background(), "gnome-shell")
	req.NoError(err)
	req.Equal("46.3-2", version)
}

func TestPolicyClient_NoCandidate(t *testing.T) {
	req := require.New(t)

	client := NewPolicyClient(WithCommandRunner(cannedRunner(t, noCandidatePolicy)))

	_, err := client.CandidateVersion(context.Background(), "gnome-shell")
	req.Error(err)
	req.True(errorx.IsOfType(err, NoCandidateError))
}

func TestPolicyClient_UnknownPackage(t *testing.T) {
	req := require.New(t)

	// apt-cache policy prints nothing to stdout for names the index has
	// never seen.
	client := NewPolicyClient(WithCommandRunner(cannedRunner(t, "\n")))

	_, err := client.CandidateVersion(context.Background(), "no-such-package")
	req.Error(err)
	req.True(errorx.IsOfType(err, NoCandidateError))
}
