package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	logFileName   = ".sync.log"
	logTimeFormat = "2006-01-02 15:04:05"
)

// appendLog writes a "<timestamp> - <message>" line to the advisory
// sync log. The log exists only to answer "when did the last sync
// happen", so write failures are reported via the warn hook and
// otherwise ignored.
func (m *Manager) appendLog(message string) {
	path := filepath.Join(m.cfg.AgentsDir, logFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		m.warnf("failed to open sync log: %v", err)
		return
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s - %s\n", m.now().Format(logTimeFormat), message); err != nil {
		m.warnf("failed to write sync log: %v", err)
	}
}

// lastSyncTime returns the timestamp of the final log line, or the
// empty string if the log is missing or malformed.
func (m *Manager) lastSyncTime() string {
	data, err := os.ReadFile(filepath.Join(m.cfg.AgentsDir, logFileName))
	if err != nil {
		return ""
	}
	var last string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			last = line
		}
	}
	if last == "" {
		return ""
	}
	timestamp, _, found := strings.Cut(last, " - ")
	if !found {
		return ""
	}
	return timestamp
}
