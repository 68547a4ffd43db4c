package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	agentsync "github.com/pders01/agent-sync/internal/sync"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the latest agent prompts from the remote repository",
	Long: `Pull the latest agent prompts from the remote repository.

The local directory is cloned on first use. Uncommitted local edits
abort the sync unless --force is given, in which case the current
agent files are backed up and the edits stashed before pulling.

Examples:
  agent-sync sync
  agent-sync sync --force`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Sync even with local changes (backs up and stashes them first)")
}

func runSync(cmd *cobra.Command, args []string) error {
	result, err := newManager().Sync(syncForce)
	if err != nil {
		if errors.Is(err, agentsync.ErrLocalChanges) {
			return fmt.Errorf("local changes detected, use --force to override or backup first")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("✓ Sync successful. %d files changed.\n", len(result.ChangedFiles))
	if len(result.ChangedFiles) > 0 {
		fmt.Println("Changed files:")
		for _, file := range result.ChangedFiles {
			fmt.Printf("  - %s\n", file)
		}
	}
	return nil
}
