package sync

import (
	"os"
	"strings"

	"github.com/pders01/agent-sync/internal/models"
)

// Status assembles a read-only report of the local repository. Each
// sub-query is independent and best-effort: a failing one leaves its
// field at the zero value and is reported via the warn hook, without
// preventing the others from populating.
func (m *Manager) Status() models.Status {
	status := models.Status{
		Initialized: m.IsInitialized(),
		AgentsDir:   m.cfg.AgentsDir,
		RepoURL:     m.cfg.RepoURL,
	}
	if !status.Initialized {
		return status
	}
	m.excludeArtifacts()

	status.TotalAgents = m.countAgentFiles()
	status.LastSync = m.lastSyncTime()

	updates, err := m.HasUpdates()
	if err != nil {
		m.warnf("update check failed: %v", err)
	}
	status.HasUpdates = updates

	changes, err := m.repo.StatusPorcelain()
	if err != nil {
		m.warnf("status query failed: %v", err)
	}
	status.LocalChanges = changes

	return status
}

// countAgentFiles counts top-level files carrying the agent extension.
func (m *Manager) countAgentFiles() int {
	entries, err := os.ReadDir(m.cfg.AgentsDir)
	if err != nil {
		m.warnf("failed to read agents directory: %v", err)
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), m.cfg.Extension) {
			count++
		}
	}
	return count
}
