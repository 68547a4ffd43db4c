package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/agent-sync/internal/config"
	"github.com/pders01/agent-sync/internal/git"
	agentsync "github.com/pders01/agent-sync/internal/sync"
)

var (
	cfgFile   string
	repoURL   string
	agentsDir string
)

var rootCmd = &cobra.Command{
	Use:   "agent-sync",
	Short: "Synchronize agent prompt files with a remote git repository",
	Long: `agent-sync keeps a local directory of agent prompt files in sync
with a remote git repository:
  - guarded pulls that never overwrite local edits unless forced
  - timestamped backups with automatic rotation
  - listing and retrieval of individual agent prompts
  - a status report covering updates, local changes and last sync`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/agent-sync/config.toml)")
	rootCmd.PersistentFlags().StringVar(&repoURL, "repo", "", "remote repository URL (overrides AGENT_REPO_URL)")
	rootCmd.PersistentFlags().StringVar(&agentsDir, "dir", "", "local agents directory (overrides AGENTS_DIR)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "agent-sync")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.BindEnv("repo.url", "AGENT_REPO_URL")
	viper.BindEnv("repo.agents_dir", "AGENTS_DIR")

	// Set defaults
	viper.SetDefault("repo.remote", "origin")
	viper.SetDefault("repo.branches", []string{"main", "master"})
	viper.SetDefault("agents.extension", ".md")
	viper.SetDefault("backup.retention", 5)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newManager resolves the effective configuration (flags over
// environment over config file) and wires the sync manager to a git
// client bound to the agents directory.
func newManager() *agentsync.Manager {
	cfg := agentsync.Config{
		RepoURL:   config.GetRepoURL(),
		AgentsDir: config.GetAgentsDir(),
		Remote:    config.GetRemote(),
		Extension: config.GetExtension(),
		Branches:  config.GetBranches(),
		Retention: config.GetRetention(),
	}
	if repoURL != "" {
		cfg.RepoURL = repoURL
	}
	if agentsDir != "" {
		cfg.AgentsDir = agentsDir
	}
	return agentsync.NewManager(cfg, git.NewClient(cfg.AgentsDir), warnf)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
