// Package sync implements the agent prompt synchronization core: guarded
// pulls from a remote repository, backup rotation, agent listing and
// status aggregation. All version-control work is delegated to a
// Repository collaborator; this package only makes the decisions.
package sync

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pders01/agent-sync/internal/models"
)

// Sentinel errors callers can test for with errors.Is.
var (
	// ErrNotConfigured means no remote repository URL is set.
	ErrNotConfigured = errors.New("repository URL not set")

	// ErrLocalChanges means uncommitted local modifications blocked a
	// non-forced sync.
	ErrLocalChanges = errors.New("local changes detected")

	// ErrAgentNotFound means no agent file matched the requested name.
	ErrAgentNotFound = errors.New("agent not found")
)

// Repository is the capability set the manager needs from the
// version-control layer. *git.Client satisfies it.
type Repository interface {
	HasRepository() bool
	Clone(url string) error
	Exclude(patterns ...string) error
	Fetch(remote string) error
	Pull(remote, branch string) error
	Stash(message string) error
	StatusPorcelain() ([]string, error)
	ListTrackedFiles() (map[string]bool, error)
	RevListCount(rangeExpr string) (int, error)
}

// WarnFunc receives diagnostics for best-effort failures the manager
// swallows (failed backups during a forced sync, unreadable agent
// files, and the like).
type WarnFunc func(format string, args ...any)

// Config holds the immutable settings for a Manager. The entry point
// resolves flags, environment and config file into this struct once;
// the core never consults the environment itself.
type Config struct {
	// RepoURL is the remote repository URL. May be empty, in which
	// case initialization fails with ErrNotConfigured.
	RepoURL string

	// AgentsDir is the local clone directory.
	AgentsDir string

	// Remote is the remote name, normally "origin".
	Remote string

	// Extension is the agent file extension including the dot.
	Extension string

	// Branches are the candidate branch names tried in order for
	// pulls and update checks.
	Branches []string

	// Retention is the number of backup snapshots to keep.
	Retention int
}

// Manager orchestrates synchronization of a local agents directory with
// its remote repository. It is not safe for concurrent use; callers
// running sync against the same directory from multiple processes rely
// on git's own locking.
type Manager struct {
	cfg   Config
	repo  Repository
	warnf WarnFunc
	now   func() time.Time
}

// NewManager creates a manager for the given configuration. warnf may
// be nil to discard best-effort diagnostics.
func NewManager(cfg Config, repo Repository, warnf WarnFunc) *Manager {
	if cfg.Remote == "" {
		cfg.Remote = "origin"
	}
	if cfg.Extension == "" {
		cfg.Extension = ".md"
	}
	if len(cfg.Branches) == 0 {
		cfg.Branches = []string{"main", "master"}
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 5
	}
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Manager{
		cfg:   cfg,
		repo:  repo,
		warnf: warnf,
		now:   time.Now,
	}
}

// IsInitialized reports whether the agents directory is a clone of the
// remote repository.
func (m *Manager) IsInitialized() bool {
	return m.repo.HasRepository()
}

// EnsureInitialized clones the remote repository into the agents
// directory if it is not already present. Returns ErrNotConfigured
// when no remote URL is set.
func (m *Manager) EnsureInitialized() error {
	if m.IsInitialized() {
		m.excludeArtifacts()
		return nil
	}
	if m.cfg.RepoURL == "" {
		return ErrNotConfigured
	}
	if err := m.repo.Clone(m.cfg.RepoURL); err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	m.excludeArtifacts()
	m.appendLog("Repository cloned successfully")
	return nil
}

// excludeArtifacts keeps the manager's own bookkeeping files out of
// the porcelain status. Without this the sync log and backup
// snapshots would show up as local changes and trip the safety gate
// on every sync after the first.
func (m *Manager) excludeArtifacts() {
	if err := m.repo.Exclude(logFileName, backupsDirName+"/"); err != nil {
		m.warnf("failed to exclude sync artifacts: %v", err)
	}
}

// HasUpdates fetches the remote and reports whether commits exist on
// the remote default branch that are not merged locally. Branch
// candidates are tried in order; the first countable one wins. A
// non-nil error means the check could not be completed and callers
// should treat the answer as "no updates".
func (m *Manager) HasUpdates() (bool, error) {
	if !m.IsInitialized() {
		return false, nil
	}
	if err := m.repo.Fetch(m.cfg.Remote); err != nil {
		return false, err
	}
	var lastErr error
	for _, branch := range m.cfg.Branches {
		count, err := m.repo.RevListCount(
			fmt.Sprintf("HEAD..%s/%s", m.cfg.Remote, branch))
		if err != nil {
			lastErr = err
			continue
		}
		return count > 0, nil
	}
	return false, lastErr
}

// Sync pulls the latest agent prompts from the remote repository.
//
// Uncommitted local modifications abort a non-forced sync with
// ErrLocalChanges before any remote call is made. With force set, the
// current agent files are backed up and the modifications stashed
// first; both are best-effort and do not fail the sync. The returned
// changed-file list is the symmetric difference of the tracked path
// sets before and after the pull, so it covers additions, removals and
// renames but not in-place content edits.
func (m *Manager) Sync(force bool) (*models.SyncResult, error) {
	if err := m.EnsureInitialized(); err != nil {
		return nil, err
	}

	status, err := m.repo.StatusPorcelain()
	if err != nil {
		return nil, fmt.Errorf("failed to check local status: %w", err)
	}
	if len(status) > 0 {
		if !force {
			return nil, ErrLocalChanges
		}
		if _, err := m.Backup(); err != nil {
			m.warnf("backup before forced sync failed: %v", err)
		}
		message := fmt.Sprintf("Auto-stash %s", m.now().Format(logTimeFormat))
		if err := m.repo.Stash(message); err != nil {
			m.warnf("failed to stash local changes: %v", err)
		}
	}

	before, err := m.repo.ListTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	if err := m.pull(); err != nil {
		return nil, err
	}

	after, err := m.repo.ListTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	changed := symmetricDifference(before, after)
	m.appendLog(fmt.Sprintf("Synced successfully. %d files changed.", len(changed)))
	return &models.SyncResult{ChangedFiles: changed}, nil
}

// pull attempts each candidate branch in order and returns the last
// failure if none succeeds.
func (m *Manager) pull() error {
	var lastErr error
	for _, branch := range m.cfg.Branches {
		if err := m.repo.Pull(m.cfg.Remote, branch); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to pull from branches %v: %w", m.cfg.Branches, lastErr)
}

// symmetricDifference returns the sorted paths present in exactly one
// of the two sets.
func symmetricDifference(before, after map[string]bool) []string {
	var changed []string
	for path := range before {
		if !after[path] {
			changed = append(changed, path)
		}
	}
	for path := range after {
		if !before[path] {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}
