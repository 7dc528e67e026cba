package ethgoctx

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/solverctx"
)

// walletClient signs and broadcasts transactions from a single filler key,
// grounded on the standard go-ethereum dynamic-fee transaction shape (the
// teacher's own crypto.TxSigner implementation wasn't present in the
// example pack to adapt — see DESIGN.md).
type walletClient struct {
	cl      *rpc.Client
	chainID *big.Int
	key     *ecdsa.PrivateKey
	from    common.Address
}

func newWalletClient(cl *rpc.Client, chainID *big.Int, key *ecdsa.PrivateKey) *walletClient {
	return &walletClient{
		cl:      cl,
		chainID: chainID,
		key:     key,
		from:    ethcrypto.PubkeyToAddress(key.PublicKey),
	}
}

func (w *walletClient) nonce(ctx context.Context) (uint64, error) {
	var out hexutil.Uint64
	err := w.cl.CallContext(ctx, &out, "eth_getTransactionCount", w.from.Hex(), "pending")
	if err != nil {
		return 0, fmt.Errorf("ethgoctx: eth_getTransactionCount: %w", err)
	}
	return uint64(out), nil
}

func (w *walletClient) gasTipCap(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := w.cl.CallContext(ctx, &out, "eth_maxPriorityFeePerGas"); err != nil {
		return big.NewInt(1_500_000_000), nil // 1.5 gwei fallback; node lacks the method
	}
	return out.ToInt(), nil
}

func (w *walletClient) gasFeeCap(ctx context.Context, tip *big.Int) (*big.Int, error) {
	var head struct {
		BaseFeePerGas *hexutil.Big `json:"baseFeePerGas"`
	}
	if err := w.cl.CallContext(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		return nil, fmt.Errorf("ethgoctx: eth_getBlockByNumber(latest): %w", err)
	}
	baseFee := big.NewInt(0)
	if head.BaseFeePerGas != nil {
		baseFee = head.BaseFeePerGas.ToInt()
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
	return feeCap, nil
}

func (w *walletClient) estimateGas(ctx context.Context, to common.Address, data []byte) (uint64, error) {
	call := map[string]string{
		"from": w.from.Hex(),
		"to":   to.Hex(),
		"data": "0x" + hex.EncodeToString(data),
	}
	var out hexutil.Uint64
	if err := w.cl.CallContext(ctx, &out, "eth_estimateGas", call); err != nil {
		return 0, fmt.Errorf("ethgoctx: eth_estimateGas: %w", err)
	}
	return uint64(out), nil
}

// SendTransaction signs a dynamic-fee transaction with the filler key and
// broadcasts it via eth_sendRawTransaction.
func (w *walletClient) SendTransaction(ctx context.Context, req solverctx.SendTxRequest) (xtypes.Hash, error) {
	to := common.BytesToAddress(req.To.Bytes())

	nonce, err := w.nonce(ctx)
	if err != nil {
		return xtypes.Hash{}, err
	}
	tip, err := w.gasTipCap(ctx)
	if err != nil {
		return xtypes.Hash{}, err
	}
	feeCap, err := w.gasFeeCap(ctx, tip)
	if err != nil {
		return xtypes.Hash{}, err
	}
	gasLimit, err := w.estimateGas(ctx, to, req.Data)
	if err != nil {
		return xtypes.Hash{}, err
	}
	// headroom over the estimate; underpriced reverts are the filler's
	// problem to resolve via its revert policy, not ours to avoid here.
	gasLimit = gasLimit * 12 / 10

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   w.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Data:      req.Data,
	})

	signer := types.NewLondonSigner(w.chainID)
	signedTx, err := types.SignTx(tx, signer, w.key)
	if err != nil {
		return xtypes.Hash{}, fmt.Errorf("ethgoctx: sign tx: %w", err)
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return xtypes.Hash{}, fmt.Errorf("ethgoctx: marshal signed tx: %w", err)
	}

	var txHash common.Hash
	if err := w.cl.CallContext(ctx, &txHash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return xtypes.Hash{}, fmt.Errorf("ethgoctx: eth_sendRawTransaction: %w", err)
	}
	return xtypes.BytesToHash(txHash.Bytes()), nil
}
