package sync

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pders01/agent-sync/internal/models"
)

// roleScanLimit bounds how far into an agent file the role heading is
// searched for.
const roleScanLimit = 10

// ListAgents enumerates the agent files in the local directory in
// sorted name order. Unreadable files are reported via the warn hook
// and skipped; they do not fail the listing.
func (m *Manager) ListAgents() ([]models.AgentDescriptor, error) {
	entries, err := os.ReadDir(m.cfg.AgentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read agents directory: %w", err)
	}

	var agents []models.AgentDescriptor
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), m.cfg.Extension) {
			continue
		}
		path := filepath.Join(m.cfg.AgentsDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			m.warnf("failed to stat %s: %v", path, err)
			continue
		}
		role, err := extractRole(path)
		if err != nil {
			m.warnf("failed to read %s: %v", path, err)
			continue
		}
		agents = append(agents, models.AgentDescriptor{
			Name:     strings.TrimSuffix(entry.Name(), m.cfg.Extension),
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
			Role:     role,
		})
	}
	return agents, nil
}

// GetAgent returns the full content of the named agent file. The name
// is first resolved by appending the configured extension; callers
// that already supply it fall through to a literal filename lookup.
func (m *Manager) GetAgent(name string) (string, error) {
	path := filepath.Join(m.cfg.AgentsDir, name+m.cfg.Extension)
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(m.cfg.AgentsDir, name)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", ErrAgentNotFound, name)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read agent file: %w", err)
	}
	return string(data), nil
}

// extractRole scans the first lines of an agent file for a "## Role"
// heading and returns the first non-empty, non-heading line after it,
// truncated to 100 characters.
func extractRole(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for len(lines) < roleScanLimit && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	for i, line := range lines {
		if strings.TrimSpace(line) != "## Role" {
			continue
		}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" || strings.HasPrefix(next, "#") {
				continue
			}
			if runes := []rune(next); len(runes) > 100 {
				next = string(runes[:100]) + "..."
			}
			return next, nil
		}
		break
	}
	return models.RoleUnavailable, nil
}
