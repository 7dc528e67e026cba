package command

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xgr-network/xgr-solver/codec"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/plan"
)

// ResolveFlags are the --resolver/--chain-id/--payload flags every
// subcommand that starts from an unresolved order shares.
type ResolveFlags struct {
	ResolverAddr string
	ChainID      string
	PayloadHex   string
}

// Register wires ResolveFlags onto cmd, marking all three required.
func (f *ResolveFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ResolverAddr, "resolver", "", "resolver contract address")
	cmd.Flags().StringVar(&f.ChainID, "chain-id", "", "chain ID the resolver lives on")
	cmd.Flags().StringVar(&f.PayloadHex, "payload", "", "hex-encoded resolve(bytes) payload")
	_ = cmd.MarkFlagRequired("resolver")
	_ = cmd.MarkFlagRequired("chain-id")
	_ = cmd.MarkFlagRequired("payload")
}

// Resolve calls codec.Resolve against the flags' resolver/chain/payload,
// using caller to perform resolve(bytes)'s underlying eth_call.
func (f *ResolveFlags) Resolve(ctx context.Context, caller codec.ChainCaller) (*plan.ResolvedOrder, error) {
	chainID, ok := new(big.Int).SetString(f.ChainID, 10)
	if !ok {
		return nil, fmt.Errorf("command: invalid --chain-id %q", f.ChainID)
	}
	addrBytes, err := hex.DecodeString(strings.TrimPrefix(f.ResolverAddr, "0x"))
	if err != nil {
		return nil, fmt.Errorf("command: invalid --resolver: %w", err)
	}
	addr, err := xtypes.AddressFromBytes(addrBytes)
	if err != nil {
		return nil, err
	}
	payload, err := hex.DecodeString(strings.TrimPrefix(f.PayloadHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("command: invalid --payload: %w", err)
	}
	return codec.Resolve(ctx, caller, xtypes.NewAccount(addr, chainID), payload)
}
