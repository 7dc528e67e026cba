// Package process implements `xgr-solver process`: resolves an order then
// runs the full preflight → quote → fill pipeline via orchestrator.Process.
package process

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgr-network/xgr-solver/command"
	"github.com/xgr-network/xgr-solver/orchestrator"
)

var (
	cfgPath string
	flags   command.ResolveFlags
)

func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Resolve an order and run it through preflight, quote, and fill",
		RunE:  run,
	}

	cmd.Flags().StringVar(&cfgPath, command.ConfigFlag, "", "path to the solver's YAML config")
	_ = cmd.MarkFlagRequired(command.ConfigFlag)
	flags.Register(cmd)

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	sctx, cfg, err := command.BuildContext(cfgPath)
	if err != nil {
		return err
	}

	observer, err := command.StartObservability(cfg)
	if err != nil {
		return err
	}

	order, err := flags.Resolve(cmd.Context(), command.PublicCaller{Ctx: sctx})
	if err != nil {
		return err
	}

	orch := orchestrator.New(sctx)
	orch.Observer = observer
	completed, err := orch.Process(cmd.Context(), order)
	if err != nil {
		return err
	}

	if completed {
		_, err = fmt.Fprintln(os.Stdout, "process completed")
	} else {
		_, err = fmt.Fprintln(os.Stdout, "process dropped")
	}
	return err
}
