package ethgoctx

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sethvargo/go-retry"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/solverctx"
)

// publicClient implements solverctx.PublicClient against one chain's
// *rpc.Client, following the "to"/"data" call object shape
// ethrpc.EthCallCtx sends.
type publicClient struct {
	cl *rpc.Client
}

func blockTag(blockNumber *uint64) string {
	if blockNumber == nil {
		return "latest"
	}
	return hexutil.EncodeUint64(*blockNumber)
}

func callObject(to xtypes.Address, data []byte) map[string]string {
	return map[string]string{
		"to":   to.String(),
		"data": "0x" + hex.EncodeToString(data),
	}
}

// revertDataOf extracts the revert payload go-ethereum nodes attach to a
// reverted eth_call's JSON-RPC error, if any.
func revertDataOf(err error) []byte {
	dataErr, ok := err.(rpc.DataError)
	if !ok {
		return nil
	}
	raw, ok := dataErr.ErrorData().(string)
	if !ok {
		return nil
	}
	b, decodeErr := hexutil.Decode(raw)
	if decodeErr != nil {
		return nil
	}
	return b
}

func (p *publicClient) ReadContract(ctx context.Context, req solverctx.CallRequest) ([]byte, error) {
	return p.Call(ctx, req)
}

func (p *publicClient) Call(ctx context.Context, req solverctx.CallRequest) ([]byte, error) {
	var out hexutil.Bytes
	err := p.cl.CallContext(ctx, &out, "eth_call", callObject(req.To, req.Data), blockTag(req.BlockNumber))
	if err != nil {
		return nil, fmt.Errorf("ethgoctx: eth_call: %w", err)
	}
	return out, nil
}

// SimulateCalls runs each call through eth_call at the same block in
// sequence, the closest equivalent to a batched simulation this JSON-RPC
// surface offers without depending on a node's non-standard debug API.
func (p *publicClient) SimulateCalls(ctx context.Context, req solverctx.SimulateRequest) ([]solverctx.SimulateResult, error) {
	results := make([]solverctx.SimulateResult, len(req.Calls))
	tag := blockTag(req.BlockNumber)

	for i, call := range req.Calls {
		var out hexutil.Bytes
		err := p.cl.CallContext(ctx, &out, "eth_call", callObject(call.To, call.Data), tag)
		if err != nil {
			results[i] = solverctx.SimulateResult{
				Success:    false,
				RevertData: revertDataOf(err),
			}
			continue
		}

		var gasUsed uint64
		var gasOut hexutil.Uint64
		if gasErr := p.cl.CallContext(ctx, &gasOut, "eth_estimateGas", callObject(call.To, call.Data)); gasErr == nil {
			gasUsed = uint64(gasOut)
		}

		results[i] = solverctx.SimulateResult{Success: true, GasUsed: gasUsed}
	}
	return results, nil
}

type rpcReceipt struct {
	Status            hexutil.Uint64 `json:"status"`
	BlockNumber       hexutil.Uint64 `json:"blockNumber"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
}

// WaitForTransactionReceipt polls eth_getTransactionReceipt with an
// exponential backoff, per go-retry's retry.Do contract, until the receipt
// appears, ctx is cancelled, or 30 retries have been used up.
func (p *publicClient) WaitForTransactionReceipt(ctx context.Context, hash xtypes.Hash) (solverctx.Receipt, error) {
	b, err := retry.NewExponential(200 * time.Millisecond)
	if err != nil {
		return solverctx.Receipt{}, fmt.Errorf("ethgoctx: backoff: %w", err)
	}
	b = retry.WithMaxRetries(30, b)

	var receipt *rpcReceipt
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		var r *rpcReceipt
		if err := p.cl.CallContext(ctx, &r, "eth_getTransactionReceipt", "0x"+hex.EncodeToString(hash.Bytes())); err != nil {
			return fmt.Errorf("ethgoctx: eth_getTransactionReceipt: %w", err)
		}
		if r == nil {
			return retry.RetryableError(fmt.Errorf("ethgoctx: receipt not yet mined"))
		}
		receipt = r
		return nil
	})
	if err != nil {
		return solverctx.Receipt{}, err
	}

	// eth_getTransactionReceipt carries no revert payload; the filler
	// re-simulates at receipt.BlockNumber to recover it when Success is
	// false and RevertData is still empty here.
	return solverctx.Receipt{
		Success:           receipt.Status == 1,
		BlockNumber:       uint64(receipt.BlockNumber),
		EffectiveGasPrice: effectiveGasPriceOf(receipt),
	}, nil
}

func effectiveGasPriceOf(r *rpcReceipt) *big.Int {
	if r.EffectiveGasPrice == nil {
		return nil
	}
	return r.EffectiveGasPrice.ToInt()
}

type rpcBlock struct {
	Number    hexutil.Uint64 `json:"number"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}

func (p *publicClient) GetBlock(ctx context.Context, blockNumber uint64) (solverctx.Block, error) {
	var blk *rpcBlock
	err := p.cl.CallContext(ctx, &blk, "eth_getBlockByNumber", hexutil.EncodeUint64(blockNumber), false)
	if err != nil {
		return solverctx.Block{}, fmt.Errorf("ethgoctx: eth_getBlockByNumber: %w", err)
	}
	if blk == nil {
		return solverctx.Block{}, fmt.Errorf("ethgoctx: block %d not found", blockNumber)
	}
	return solverctx.Block{Number: uint64(blk.Number), Timestamp: uint64(blk.Timestamp)}, nil
}
