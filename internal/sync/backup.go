package sync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	backupsDirName   = ".backups"
	backupPrefix     = "backup_"
	backupTimeFormat = "20060102_150405"
)

// Backup copies every top-level agent file into a timestamped snapshot
// directory under .backups and prunes snapshots beyond the retention
// count. The snapshot name encodes the creation time to second
// resolution, so lexicographic order is chronological order. Returns
// the new snapshot's path.
func (m *Manager) Backup() (string, error) {
	backupsRoot := filepath.Join(m.cfg.AgentsDir, backupsDirName)
	if err := os.MkdirAll(backupsRoot, 0755); err != nil {
		return "", fmt.Errorf("failed to create backups directory: %w", err)
	}

	snapshot := filepath.Join(backupsRoot, backupPrefix+m.now().Format(backupTimeFormat))
	if err := os.MkdirAll(snapshot, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	entries, err := os.ReadDir(m.cfg.AgentsDir)
	if err != nil {
		return "", fmt.Errorf("failed to read agents directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), m.cfg.Extension) {
			continue
		}
		src := filepath.Join(m.cfg.AgentsDir, entry.Name())
		dst := filepath.Join(snapshot, entry.Name())
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("failed to copy %s: %w", entry.Name(), err)
		}
	}

	if err := m.pruneBackups(backupsRoot); err != nil {
		return "", err
	}

	m.appendLog("Backup created: " + snapshot)
	return snapshot, nil
}

// pruneBackups deletes snapshot directories beyond the retention
// count, oldest first.
func (m *Manager) pruneBackups(backupsRoot string) error {
	entries, err := os.ReadDir(backupsRoot)
	if err != nil {
		return fmt.Errorf("failed to read backups directory: %w", err)
	}

	var snapshots []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), backupPrefix) {
			snapshots = append(snapshots, entry.Name())
		}
	}
	sort.Strings(snapshots)

	if len(snapshots) <= m.cfg.Retention {
		return nil
	}
	for _, name := range snapshots[:len(snapshots)-m.cfg.Retention] {
		if err := os.RemoveAll(filepath.Join(backupsRoot, name)); err != nil {
			return fmt.Errorf("failed to delete old backup %s: %w", name, err)
		}
	}
	return nil
}

// copyFile copies src to dst, preserving the source's permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
