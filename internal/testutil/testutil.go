package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Fixture provides a bare "remote" repository plus a seed clone that
// pushes to it, so sync flows can be exercised against real git
// end to end.
type Fixture struct {
	T *testing.T

	// RemoteURL is the path of the bare repository, usable anywhere a
	// remote URL is expected.
	RemoteURL string

	base   string
	seed   string
	clones int
}

// NewFixture creates a bare remote with an initial commit on main.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	base := t.TempDir()
	remote := filepath.Join(base, "remote.git")
	seed := filepath.Join(base, "seed")

	Git(t, "", "init", "--bare", "--initial-branch=main", remote)
	Git(t, "", "clone", remote, seed)
	Git(t, seed, "config", "user.name", "Test User")
	Git(t, seed, "config", "user.email", "test@example.com")
	Git(t, seed, "symbolic-ref", "HEAD", "refs/heads/main")

	f := &Fixture{T: t, RemoteURL: remote, base: base, seed: seed}
	f.PushFile("README.md", "# Agents\n")
	return f
}

// PushFile writes a file in the seed clone, commits it and pushes to
// the remote's main branch.
func (f *Fixture) PushFile(name, content string) {
	f.T.Helper()

	path := filepath.Join(f.seed, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.T.Fatalf("failed to write %s: %v", name, err)
	}
	Git(f.T, f.seed, "add", name)
	Git(f.T, f.seed, "commit", "-m", "Add "+name)
	Git(f.T, f.seed, "push", "origin", "main")
}

// RemoveFile deletes a file from the remote via the seed clone.
func (f *Fixture) RemoveFile(name string) {
	f.T.Helper()

	Git(f.T, f.seed, "rm", name)
	Git(f.T, f.seed, "commit", "-m", "Remove "+name)
	Git(f.T, f.seed, "push", "origin", "main")
}

// CloneDir returns a fresh, not yet existing directory path for a
// local clone of the fixture's remote.
func (f *Fixture) CloneDir() string {
	f.clones++
	return filepath.Join(f.base, fmt.Sprintf("clone%d", f.clones))
}

// Clone clones the remote into a fresh directory with a configured
// test user and returns the directory.
func (f *Fixture) Clone() string {
	f.T.Helper()

	dir := f.CloneDir()
	Git(f.T, "", "clone", f.RemoteURL, dir)
	Git(f.T, dir, "config", "user.name", "Test User")
	Git(f.T, dir, "config", "user.email", "test@example.com")
	return dir
}

// Git runs a git command in dir (or the process working directory when
// dir is empty) and fails the test on a non-zero exit.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, output)
	}
	return string(output)
}
