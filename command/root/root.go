// Package root assembles the xgr-solver CLI's cobra root command, following
// the RootCommand shape of command/root/root.go.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgr-network/xgr-solver/command/fill"
	"github.com/xgr-network/xgr-solver/command/process"
	"github.com/xgr-network/xgr-solver/command/quote"
	"github.com/xgr-network/xgr-solver/command/resolve"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Short: "xgr-solver is a cross-chain intent resolver and filler",
		},
	}

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		resolve.GetCommand(),
		quote.GetCommand(),
		fill.GetCommand(),
		process.GetCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
