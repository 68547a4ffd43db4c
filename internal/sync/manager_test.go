package sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is a scriptable Repository that records every call, so
// tests can assert on ordering and on which remote operations ran.
type fakeRepo struct {
	initialized bool
	cloneErr    error
	fetchErr    error
	statusLines []string
	statusErr   error
	pullErrs    map[string]error
	stashErr    error
	trackedSets []map[string]bool
	counts      map[string]int
	countErrs   map[string]error

	calls   []string
	onStash func()
}

func (f *fakeRepo) HasRepository() bool { return f.initialized }

func (f *fakeRepo) Clone(url string) error {
	f.calls = append(f.calls, "clone")
	if f.cloneErr != nil {
		return f.cloneErr
	}
	f.initialized = true
	return nil
}

func (f *fakeRepo) Exclude(patterns ...string) error {
	f.calls = append(f.calls, "exclude")
	return nil
}

func (f *fakeRepo) Fetch(remote string) error {
	f.calls = append(f.calls, "fetch")
	return f.fetchErr
}

func (f *fakeRepo) Pull(remote, branch string) error {
	f.calls = append(f.calls, "pull "+branch)
	return f.pullErrs[branch]
}

func (f *fakeRepo) Stash(message string) error {
	f.calls = append(f.calls, "stash")
	if f.onStash != nil {
		f.onStash()
	}
	return f.stashErr
}

func (f *fakeRepo) StatusPorcelain() ([]string, error) {
	f.calls = append(f.calls, "status")
	return f.statusLines, f.statusErr
}

func (f *fakeRepo) ListTrackedFiles() (map[string]bool, error) {
	f.calls = append(f.calls, "ls-tree")
	if len(f.trackedSets) == 0 {
		return map[string]bool{}, nil
	}
	set := f.trackedSets[0]
	f.trackedSets = f.trackedSets[1:]
	return set, nil
}

func (f *fakeRepo) RevListCount(rangeExpr string) (int, error) {
	f.calls = append(f.calls, "rev-list "+rangeExpr)
	if err := f.countErrs[rangeExpr]; err != nil {
		return 0, err
	}
	return f.counts[rangeExpr], nil
}

func newTestManager(t *testing.T, repo *fakeRepo) *Manager {
	t.Helper()
	return NewManager(Config{
		RepoURL:   "https://example.com/agents.git",
		AgentsDir: t.TempDir(),
	}, repo, nil)
}

func set(paths ...string) map[string]bool {
	s := make(map[string]bool)
	for _, p := range paths {
		s[p] = true
	}
	return s
}

func TestSymmetricDifference(t *testing.T) {
	tests := []struct {
		name          string
		before, after map[string]bool
		want          []string
	}{
		{"both empty", set(), set(), nil},
		{"identical", set("a.md", "b.md"), set("b.md", "a.md"), nil},
		{"added", set("a.md"), set("a.md", "b.md"), []string{"b.md"}},
		{"removed", set("a.md", "b.md"), set("a.md"), []string{"b.md"}},
		{"renamed", set("a.md", "old.md"), set("a.md", "new.md"), []string{"new.md", "old.md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symmetricDifference(tt.before, tt.after))
			// The difference is symmetric, so swapping the inputs
			// must yield the same list.
			assert.Equal(t, tt.want, symmetricDifference(tt.after, tt.before))
		})
	}
}

func TestEnsureInitializedWithoutURL(t *testing.T) {
	repo := &fakeRepo{}
	m := NewManager(Config{AgentsDir: t.TempDir()}, repo, nil)

	err := m.EnsureInitialized()
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, repo.calls)
}

func TestEnsureInitializedClones(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestManager(t, repo)

	require.NoError(t, m.EnsureInitialized())
	assert.Equal(t, []string{"clone", "exclude"}, repo.calls)
	assert.True(t, m.IsInitialized())

	// A second call only refreshes the artifact excludes.
	require.NoError(t, m.EnsureInitialized())
	assert.Equal(t, []string{"clone", "exclude", "exclude"}, repo.calls)
}

func TestSyncBlockedByLocalChanges(t *testing.T) {
	repo := &fakeRepo{
		initialized: true,
		statusLines: []string{" M reviewer.md"},
	}
	m := newTestManager(t, repo)

	result, err := m.Sync(false)
	assert.ErrorIs(t, err, ErrLocalChanges)
	assert.Nil(t, result)
	assert.NotContains(t, repo.calls, "pull main")
	assert.NotContains(t, repo.calls, "pull master")
	assert.NotContains(t, repo.calls, "stash")
}

func TestSyncForceBacksUpBeforeStash(t *testing.T) {
	repo := &fakeRepo{
		initialized: true,
		statusLines: []string{" M reviewer.md"},
		trackedSets: []map[string]bool{set("reviewer.md"), set("reviewer.md")},
	}
	m := newTestManager(t, repo)

	agent := filepath.Join(m.cfg.AgentsDir, "reviewer.md")
	require.NoError(t, os.WriteFile(agent, []byte("# Reviewer\n"), 0644))

	var snapshotsAtStash int
	repo.onStash = func() {
		entries, err := os.ReadDir(filepath.Join(m.cfg.AgentsDir, backupsDirName))
		require.NoError(t, err)
		snapshotsAtStash = len(entries)
	}

	result, err := m.Sync(true)
	require.NoError(t, err)
	assert.Empty(t, result.ChangedFiles)
	assert.Contains(t, repo.calls, "stash")
	assert.Equal(t, 1, snapshotsAtStash, "backup must exist before stash runs")
}

func TestSyncForceStashFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{
		initialized: true,
		statusLines: []string{" M reviewer.md"},
		stashErr:    errors.New("stash exploded"),
		trackedSets: []map[string]bool{set("reviewer.md"), set("reviewer.md")},
	}
	m := newTestManager(t, repo)

	_, err := m.Sync(true)
	assert.NoError(t, err)
}

func TestSyncReportsChangedFiles(t *testing.T) {
	repo := &fakeRepo{
		initialized: true,
		trackedSets: []map[string]bool{
			set("a.md", "b.md"),
			set("b.md", "c.md"),
		},
	}
	m := newTestManager(t, repo)

	result, err := m.Sync(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "c.md"}, result.ChangedFiles)

	data, err := os.ReadFile(filepath.Join(m.cfg.AgentsDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Synced successfully. 2 files changed.")
}

func TestSyncFallsBackToMaster(t *testing.T) {
	repo := &fakeRepo{
		initialized: true,
		pullErrs:    map[string]error{"main": errors.New("unknown branch")},
		trackedSets: []map[string]bool{set("a.md"), set("a.md")},
	}
	m := newTestManager(t, repo)

	_, err := m.Sync(false)
	require.NoError(t, err)

	mainIdx, masterIdx := -1, -1
	for i, call := range repo.calls {
		switch call {
		case "pull main":
			mainIdx = i
		case "pull master":
			masterIdx = i
		}
	}
	require.NotEqual(t, -1, mainIdx)
	require.NotEqual(t, -1, masterIdx)
	assert.Less(t, mainIdx, masterIdx)
}

func TestSyncFailsWhenAllBranchesFail(t *testing.T) {
	repo := &fakeRepo{
		initialized: true,
		pullErrs: map[string]error{
			"main":   errors.New("unknown branch"),
			"master": errors.New("unknown branch"),
		},
		trackedSets: []map[string]bool{set("a.md")},
	}
	m := newTestManager(t, repo)

	result, err := m.Sync(false)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSyncInitializesOnDemand(t *testing.T) {
	repo := &fakeRepo{
		trackedSets: []map[string]bool{set("a.md"), set("a.md")},
	}
	m := newTestManager(t, repo)

	_, err := m.Sync(false)
	require.NoError(t, err)
	assert.Equal(t, "clone", repo.calls[0])
}

func TestHasUpdates(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		repo := &fakeRepo{}
		updates, err := newTestManager(t, repo).HasUpdates()
		require.NoError(t, err)
		assert.False(t, updates)
		assert.Empty(t, repo.calls)
	})

	t.Run("commits behind main", func(t *testing.T) {
		repo := &fakeRepo{
			initialized: true,
			counts:      map[string]int{"HEAD..origin/main": 2},
		}
		updates, err := newTestManager(t, repo).HasUpdates()
		require.NoError(t, err)
		assert.True(t, updates)
	})

	t.Run("falls back to master", func(t *testing.T) {
		repo := &fakeRepo{
			initialized: true,
			countErrs:   map[string]error{"HEAD..origin/main": errors.New("unknown revision")},
			counts:      map[string]int{"HEAD..origin/master": 1},
		}
		updates, err := newTestManager(t, repo).HasUpdates()
		require.NoError(t, err)
		assert.True(t, updates)
	})

	t.Run("fetch failure fails open", func(t *testing.T) {
		repo := &fakeRepo{
			initialized: true,
			fetchErr:    fmt.Errorf("remote unreachable"),
		}
		updates, err := newTestManager(t, repo).HasUpdates()
		assert.Error(t, err)
		assert.False(t, updates)
	})

	t.Run("up to date", func(t *testing.T) {
		repo := &fakeRepo{initialized: true}
		updates, err := newTestManager(t, repo).HasUpdates()
		require.NoError(t, err)
		assert.False(t, updates)
	})
}
