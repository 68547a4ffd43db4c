package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available agent prompts",
	Long: `List the agent prompts in the local directory together with
their role summary, size and last modification time.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	agents, err := newManager().ListAgents()
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}

	if len(agents) == 0 {
		fmt.Println("No agents found.")
		return nil
	}

	fmt.Println("=== Available Agents ===")
	for _, agent := range agents {
		fmt.Printf("\n%s\n", agent.Name)
		fmt.Printf("  Role: %s\n", agent.Role)
		fmt.Printf("  Modified: %s\n", agent.Modified.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Size: %d bytes\n", agent.Size)
	}
	return nil
}
