// Package fill implements `xgr-solver fill`: resolves and quotes an order,
// then drives the filler's per-step state machine to completion, reporting
// whether every step completed or one was dropped.
package fill

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgr-network/xgr-solver/command"
	"github.com/xgr-network/xgr-solver/filler"
	"github.com/xgr-network/xgr-solver/quoter"
)

var (
	cfgPath string
	flags   command.ResolveFlags
)

func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Resolve, quote, and fill an order end to end",
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

	result, err := quoter.Quote(cmd.Context(), sctx, order)
	if err != nil {
		return err
	}

	f := filler.New(sctx, order, result.Env)
	f.Observer = observer
	completed, err := f.Fill(cmd.Context())
	if err != nil {
		return err
	}

	if completed {
		_, err = fmt.Fprintln(os.Stdout, "fill completed")
	} else {
		_, err = fmt.Fprintln(os.Stdout, "fill dropped")
	}
	return err
}
