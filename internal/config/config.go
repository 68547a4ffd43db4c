package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetRepoURL returns the remote repository URL
func GetRepoURL() string {
	return viper.GetString("repo.url")
}

// GetAgentsDir returns the local agents directory, defaulting to
// ~/agents when unset
func GetAgentsDir() string {
	if dir := viper.GetString("repo.agents_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "agents"
	}
	return filepath.Join(home, "agents")
}

// GetRemote returns the remote name used for fetch and pull
func GetRemote() string {
	return viper.GetString("repo.remote")
}

// GetBranches returns the candidate branch names tried in order
func GetBranches() []string {
	return viper.GetStringSlice("repo.branches")
}

// GetExtension returns the agent file extension
func GetExtension() string {
	return viper.GetString("agents.extension")
}

// GetRetention returns the number of backup snapshots to keep
func GetRetention() int {
	return viper.GetInt("backup.retention")
}
