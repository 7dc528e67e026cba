// Package solverctx defines the external interface boundary the core
// consumes: chain clients, whitelist, witness resolvers, and pricing
// oracles. Everything here is out of the
// core's scope to implement — ethgoctx provides one concrete binding.
package solverctx

import (
	"context"
	"math/big"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

// CallRequest is a read-only eth_call.
type CallRequest struct {
	To          xtypes.Address
	Data        []byte
	BlockNumber *uint64 // nil means "latest"
}

// SimulateCall is one call within a SimulateCalls batch.
type SimulateCall struct {
	To   xtypes.Address
	Data []byte
}

type SimulateRequest struct {
	Account     xtypes.Address
	BlockNumber *uint64
	Calls       []SimulateCall
}

// SimulateResult reports the outcome of a single simulated call, the shape
// the quoter and filler both need.
type SimulateResult struct {
	Success    bool
	GasUsed    uint64
	RevertData []byte
}

// Receipt is the subset of a transaction receipt the core reads.
type Receipt struct {
	Success           bool
	BlockNumber       uint64
	EffectiveGasPrice *big.Int
	RevertData        []byte
}

type Block struct {
	Number    uint64
	Timestamp uint64
}

type SendTxRequest struct {
	Account xtypes.Address
	To      xtypes.Address
	Data    []byte
}

// PublicClient is the read-capable chain client.
type PublicClient interface {
	ReadContract(ctx context.Context, req CallRequest) ([]byte, error)
	Call(ctx context.Context, req CallRequest) ([]byte, error)
	SimulateCalls(ctx context.Context, req SimulateRequest) ([]SimulateResult, error)
	WaitForTransactionReceipt(ctx context.Context, hash xtypes.Hash) (Receipt, error)
	GetBlock(ctx context.Context, blockNumber uint64) (Block, error)
}

// WalletClient is the send-capable chain client.
type WalletClient interface {
	SendTransaction(ctx context.Context, req SendTxRequest) (xtypes.Hash, error)
}

// WitnessResolver resolves a Witness variable's value at fill time.
type WitnessResolver interface {
	Resolve(ctx context.Context, data []byte, values []abiwire.Value) (abiwire.Value, error)
}

// SolverContext is the complete surface the core requires.
type SolverContext interface {
	GetPublicClient(chainID *big.Int) (PublicClient, error)
	GetWalletClient(chainID *big.Int) (WalletClient, error)
	PaymentChain() *big.Int
	PaymentRecipient(chainID *big.Int) (xtypes.Address, error)
	FillerAddress() xtypes.Address
	IsWhitelisted(account xtypes.Account, kind string) bool
	GetWitnessResolver(kind string) (WitnessResolver, bool)
	GetTokenPriceUsd(token xtypes.Account) (*big.Int, error)
	GetGasPriceUsd(chainID *big.Int) (*big.Int, error)
}
