// Command skilldocketd runs the skill docket daemon: a local
// orchestration loop that supervises a fleet of interactive agents
// across terminal-multiplexer sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skilldocketd",
		Short: "Orchestrate a fleet of long-running interactive agents",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newStopCmd())
	root.AddCommand(newVersionCmd())
	return root
}
