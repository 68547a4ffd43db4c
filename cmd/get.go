package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	agentsync "github.com/pders01/agent-sync/internal/sync"
)

var getCmd = &cobra.Command{
	Use:   "get <agent>",
	Short: "Print the content of a specific agent prompt",
	Long: `Print the full content of an agent prompt to standard output.

The name may be given with or without the file extension:
  agent-sync get code-reviewer
  agent-sync get code-reviewer.md`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	content, err := newManager().GetAgent(args[0])
	if err != nil {
		if errors.Is(err, agentsync.ErrAgentNotFound) {
			return fmt.Errorf("agent '%s' not found", args[0])
		}
		return err
	}

	fmt.Print(content)
	return nil
}
