package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the local agent repository",
	Long: `Show the state of the local agent repository: whether it is
initialized, how many agents it holds, the time of the last sync,
whether updates are available upstream, and any local changes.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	status := newManager().Status()

	fmt.Println("=== Agent Repository Status ===")
	fmt.Printf("Initialized: %t\n", status.Initialized)
	fmt.Printf("Directory: %s\n", status.AgentsDir)

	repo := status.RepoURL
	if repo == "" {
		repo = "Not configured"
	}
	fmt.Printf("Repository: %s\n", repo)
	fmt.Printf("Total agents: %d\n", status.TotalAgents)

	lastSync := status.LastSync
	if lastSync == "" {
		lastSync = "Never"
	}
	fmt.Printf("Last sync: %s\n", lastSync)
	fmt.Printf("Updates available: %t\n", status.HasUpdates)

	if len(status.LocalChanges) > 0 {
		fmt.Printf("Local changes: %d files\n", len(status.LocalChanges))
	}
	return nil
}
