package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a timestamped backup of the current agent files",
	Long: `Copy the current agent files into a timestamped snapshot under
the .backups directory. Only the five most recent snapshots are kept;
older ones are deleted.`,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	path, err := newManager().Backup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", path)
	return nil
}
