// Package resolve implements `xgr-solver resolve`: calls a resolver
// contract's resolve(bytes) entry point and prints the decoded
// plan.ResolvedOrder as JSON, following command/root/root.go's
// Use/Short/RunE cobra shape.
package resolve

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgr-network/xgr-solver/command"
)

var (
	cfgPath string
	flags   command.ResolveFlags
)

func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an order against a resolver contract and print the decoded plan",
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

	enc, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(enc))
	return err
}
