package cmd

import (
	"testing"

	"github.com/pders01/agent-sync/internal/testutil"
)

// useFixture points the persistent flags at a fresh fixture clone and
// restores them when the test finishes.
func useFixture(t *testing.T, fixture *testutil.Fixture) string {
	t.Helper()

	dir := fixture.CloneDir()
	repoURL = fixture.RemoteURL
	agentsDir = dir
	t.Cleanup(func() {
		repoURL = ""
		agentsDir = ""
	})
	return dir
}
