// Package quote implements `xgr-solver quote`: resolves an order then runs
// it through the quoter, printing the evaluated flows and PnL.
package quote

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgr-network/xgr-solver/command"
	"github.com/xgr-network/xgr-solver/quoter"
)

var (
	cfgPath string
	flags   command.ResolveFlags
)

func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Resolve an order and quote it, printing evaluated flows and PnL",
		RunE:  run,
	}

	cmd.Flags().StringVar(&cfgPath, command.ConfigFlag, "", "path to the solver's YAML config")
	_ = cmd.MarkFlagRequired(command.ConfigFlag)
	flags.Register(cmd)

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	sctx, _, err := command.BuildContext(cfgPath)
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

	enc, err := json.MarshalIndent(struct {
		Flows []quoter.Flow
		PnL   *big.Int
	}{result.Flows, result.PnL}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(enc))
	return err
}
