// Package git wraps the installed git binary with the small capability
// set the sync manager needs: clone, fetch, pull, stash, porcelain
// status, tracked-file listing and rev-list counting. Every operation is
// a blocking external-process call; a non-zero exit is surfaced as an
// error carrying git's own diagnostic output, never parsed here.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Client runs git commands against a fixed working directory.
type Client struct {
	dir string
}

// NewClient returns a client bound to the given repository directory.
// The directory does not need to exist yet; Clone creates it.
func NewClient(dir string) *Client {
	return &Client{dir: dir}
}

// Dir returns the working directory the client is bound to.
func (c *Client) Dir() string {
	return c.dir
}

// run executes git with the client's working directory and returns its
// combined output. Failures wrap the output so callers can surface
// git's diagnostic text verbatim.
func (c *Client) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w\n%s",
			strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// HasRepository reports whether the client's directory contains
// version-control metadata.
func (c *Client) HasRepository() bool {
	info, err := os.Stat(filepath.Join(c.dir, ".git"))
	return err == nil && info.IsDir()
}

// Clone clones url into the client's directory, creating parent
// directories as needed.
func (c *Client) Clone(url string) error {
	if err := os.MkdirAll(filepath.Dir(c.dir), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	cmd := exec.Command("git", "clone", url, c.dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone failed: %w\n%s",
			err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Exclude appends the given patterns to .git/info/exclude so they
// never appear in the porcelain status. Patterns already present are
// left alone, making the call idempotent.
func (c *Client) Exclude(patterns ...string) error {
	path := filepath.Join(c.dir, ".git", "info", "exclude")

	existing := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			existing[strings.TrimSpace(line)] = true
		}
	}

	var missing []string
	for _, pattern := range patterns {
		if !existing[pattern] {
			missing = append(missing, pattern)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create exclude directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open exclude file: %w", err)
	}
	defer f.Close()

	if len(data) > 0 && data[len(data)-1] != '\n' {
		missing = append([]string{""}, missing...)
	}
	for _, pattern := range missing {
		if _, err := fmt.Fprintln(f, pattern); err != nil {
			return fmt.Errorf("failed to write exclude file: %w", err)
		}
	}
	return nil
}

// Fetch updates remote-tracking refs for the named remote.
func (c *Client) Fetch(remote string) error {
	_, err := c.run("fetch", remote)
	return err
}

// Pull pulls the given branch from the named remote.
func (c *Client) Pull(remote, branch string) error {
	_, err := c.run("pull", remote, branch)
	return err
}

// Stash moves uncommitted local modifications aside under the given
// stash message.
func (c *Client) Stash(message string) error {
	_, err := c.run("stash", "push", "-m", message)
	return err
}

// StatusPorcelain returns the porcelain status lines for uncommitted
// local modifications. An empty slice means the working tree is clean.
func (c *Client) StatusPorcelain() ([]string, error) {
	output, err := c.run("status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// ListTrackedFiles returns the set of paths tracked at HEAD.
func (c *Client) ListTrackedFiles() (map[string]bool, error) {
	output, err := c.run("ls-tree", "-r", "HEAD", "--name-only")
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files[line] = true
		}
	}
	return files, nil
}

// RevListCount returns the number of commits reachable through the
// given range expression, e.g. "HEAD..origin/main".
func (c *Client) RevListCount(rangeExpr string) (int, error) {
	output, err := c.run("rev-list", "--count", rangeExpr)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(output))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w",
			strings.TrimSpace(output), err)
	}
	return count, nil
}
