package filler

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/plan"
	"github.com/xgr-network/xgr-solver/solverctx"
	"github.com/xgr-network/xgr-solver/variableenv"
)

type fakeClient struct {
	simulateQueue []solverctx.SimulateResult
	simulateCalls int
	receipt       solverctx.Receipt
	block         solverctx.Block
}

func (c *fakeClient) ReadContract(ctx context.Context, req solverctx.CallRequest) ([]byte, error) {
	return nil, nil
}
func (c *fakeClient) Call(ctx context.Context, req solverctx.CallRequest) ([]byte, error) {
	return nil, nil
}
func (c *fakeClient) SimulateCalls(ctx context.Context, req solverctx.SimulateRequest) ([]solverctx.SimulateResult, error) {
	c.simulateCalls++
	if len(c.simulateQueue) == 0 {
		return nil, errors.New("filler test: simulate queue exhausted")
	}
	r := c.simulateQueue[0]
	c.simulateQueue = c.simulateQueue[1:]
	return []solverctx.SimulateResult{r}, nil
}
func (c *fakeClient) WaitForTransactionReceipt(ctx context.Context, hash xtypes.Hash) (solverctx.Receipt, error) {
	return c.receipt, nil
}
func (c *fakeClient) GetBlock(ctx context.Context, n uint64) (solverctx.Block, error) {
	return c.block, nil
}

type fakeWallet struct {
	sent int
	hash xtypes.Hash
}

func (w *fakeWallet) SendTransaction(ctx context.Context, req solverctx.SendTxRequest) (xtypes.Hash, error) {
	w.sent++
	return w.hash, nil
}

type fakeCtx struct {
	client *fakeClient
	wallet *fakeWallet
	filler xtypes.Address
}

func (f *fakeCtx) GetPublicClient(chainID *big.Int) (solverctx.PublicClient, error) { return f.client, nil }
func (f *fakeCtx) GetWalletClient(chainID *big.Int) (solverctx.WalletClient, error) { return f.wallet, nil }
func (f *fakeCtx) PaymentChain() *big.Int                                           { return big.NewInt(1) }
func (f *fakeCtx) PaymentRecipient(chainID *big.Int) (xtypes.Address, error) {
	return xtypes.Address{}, nil
}
func (f *fakeCtx) FillerAddress() xtypes.Address                          { return f.filler }
func (f *fakeCtx) IsWhitelisted(account xtypes.Account, kind string) bool { return true }
func (f *fakeCtx) GetWitnessResolver(kind string) (solverctx.WitnessResolver, bool) {
	return nil, false
}
func (f *fakeCtx) GetTokenPriceUsd(token xtypes.Account) (*big.Int, error) { return big.NewInt(1), nil }
func (f *fakeCtx) GetGasPriceUsd(chainID *big.Int) (*big.Int, error)      { return big.NewInt(1), nil }

func accountOf(n byte) plan.Account {
	var addr xtypes.Address
	addr[19] = n
	return xtypes.NewAccount(addr, big.NewInt(1))
}

// TestFill_S5_DropOnRevert covers a step that reverts
// with data 0xDEADBEEF..., policy [{drop, expectedReason: 0xDEAD}] matches by
// prefix, fill returns false and never sends a transaction.
func TestFill_S5_DropOnRevert(t *testing.T) {
	t.Parallel()

	order := &plan.ResolvedOrder{
		Steps: []plan.Step{{
			Target:   accountOf(1),
			Selector: [4]byte{1, 2, 3, 4},
			Attributes: plan.Attributes{
				RevertPolicy: []plan.RevertPolicyEntry{
					{Policy: plan.RevertPolicyDrop, ExpectedReason: []byte{0xDE, 0xAD}},
				},
			},
		}},
	}

	client := &fakeClient{
		simulateQueue: []solverctx.SimulateResult{
			{Success: false, RevertData: []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		},
	}
	wallet := &fakeWallet{}
	sctx := &fakeCtx{client: client, wallet: wallet}
	env := variableenv.New(order, sctx)

	ok, err := New(sctx, order, env).Fill(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, wallet.sent, "drop must short-circuit before sending")
	assert.Equal(t, 1, client.simulateCalls, "no post-revert re-simulation needed when pre-sim already reverted")
}

// TestFill_S6_ReceiptExtraction covers a
// successful receipt {blockNumber: 1000, effectiveGasPrice: 7} at a block
// timestamped 12345 extracted into the step's WithBlockNumber,
// WithTimestamp, and WithEffectiveGasPrice variables as uint256 wrapped
// values.
func TestFill_S6_ReceiptExtraction(t *testing.T) {
	t.Parallel()

	blockIdx, tsIdx, gasIdx := 0, 1, 2
	order := &plan.ResolvedOrder{
		Steps: []plan.Step{{
			Target:   accountOf(1),
			Selector: [4]byte{1, 2, 3, 4},
			Attributes: plan.Attributes{
				WithBlockNumber:       &blockIdx,
				WithTimestamp:         &tsIdx,
				WithEffectiveGasPrice: &gasIdx,
			},
		}},
		Variables: []plan.VariableRole{
			{Kind: plan.RoleTxOutput},
			{Kind: plan.RoleTxOutput},
			{Kind: plan.RoleTxOutput},
		},
	}

	client := &fakeClient{
		simulateQueue: []solverctx.SimulateResult{{Success: true}},
		receipt:       solverctx.Receipt{Success: true, BlockNumber: 1000, EffectiveGasPrice: big.NewInt(7)},
		block:         solverctx.Block{Number: 1000, Timestamp: 12345},
	}
	wallet := &fakeWallet{}
	sctx := &fakeCtx{client: client, wallet: wallet}
	env := variableenv.New(order, sctx)

	ok, err := New(sctx, order, env).Fill(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, wallet.sent)

	ctx := context.Background()
	vBlock, err := env.Get(ctx, blockIdx)
	require.NoError(t, err)
	assert.Equal(t, abiwire.EncodeUint256(big.NewInt(1000)).Encoding, vBlock.Encoding)

	vTs, err := env.Get(ctx, tsIdx)
	require.NoError(t, err)
	assert.Equal(t, abiwire.EncodeUint256(big.NewInt(12345)).Encoding, vTs.Encoding)

	vGas, err := env.Get(ctx, gasIdx)
	require.NoError(t, err)
	assert.Equal(t, abiwire.EncodeUint256(big.NewInt(7)).Encoding, vGas.Encoding)
}

// TestFill_IgnorePolicyContinues checks that an ignore-matched revert does
// not abort the fill of a plan's remaining steps.
func TestFill_IgnorePolicyContinues(t *testing.T) {
	t.Parallel()

	order := &plan.ResolvedOrder{
		Steps: []plan.Step{
			{
				Target:   accountOf(1),
				Selector: [4]byte{1, 2, 3, 4},
				Attributes: plan.Attributes{
					RevertPolicy: []plan.RevertPolicyEntry{
						{Policy: plan.RevertPolicyIgnore, ExpectedReason: []byte{0xAA}},
					},
				},
			},
			{
				Target:   accountOf(2),
				Selector: [4]byte{5, 6, 7, 8},
			},
		},
	}

	client := &fakeClient{
		simulateQueue: []solverctx.SimulateResult{
			{Success: false, RevertData: []byte{0xAA, 0xBB}},
			{Success: true},
		},
		receipt: solverctx.Receipt{Success: true, BlockNumber: 1},
	}
	wallet := &fakeWallet{}
	sctx := &fakeCtx{client: client, wallet: wallet}
	env := variableenv.New(order, sctx)

	ok, err := New(sctx, order, env).Fill(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, wallet.sent, "second step must still execute after an ignored revert")
}

// TestFill_UnmatchedRevertIsFatal checks that a revert with no matching
// policy entry surfaces as an error rather than a drop.
func TestFill_UnmatchedRevertIsFatal(t *testing.T) {
	t.Parallel()

	order := &plan.ResolvedOrder{
		Steps: []plan.Step{{
			Target:   accountOf(1),
			Selector: [4]byte{1, 2, 3, 4},
			Attributes: plan.Attributes{
				RevertPolicy: []plan.RevertPolicyEntry{
					{Policy: plan.RevertPolicyDrop, ExpectedReason: []byte{0x01}},
				},
			},
		}},
	}

	client := &fakeClient{
		simulateQueue: []solverctx.SimulateResult{{Success: false, RevertData: []byte{0xFF}}},
	}
	sctx := &fakeCtx{client: client, wallet: &fakeWallet{}}
	env := variableenv.New(order, sctx)

	_, err := New(sctx, order, env).Fill(context.Background())
	assert.ErrorContains(t, err, "unmatched revert")
}
