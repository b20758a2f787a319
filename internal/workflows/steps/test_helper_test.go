// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"os"
	"testing"

	"github.com/deskstrap/deskstrap/internal/core"
)

// withTempPaths redirects the deskstrap directory layout under a temp root
// for the duration of a test and creates the directories.
func withTempPaths(t *testing.T) *core.DeskstrapPaths {
	t.Helper()

	orig := core.Paths().Clone()
	dp := core.NewDeskstrapPaths(t.TempDir())
	core.SetPaths(dp)

	for _, dir := range dp.AllDirectories {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	t.Cleanup(func() { core.SetPaths(orig) })
	return dp
}
