package ethgoctx

import (
	"context"
	"math/big"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/whitelist"
	"github.com/xgr-network/xgr-solver/witness"
)

func TestNew_RequiresFillerKey(t *testing.T) {
	_, err := New(Config{PaymentChainID: big.NewInt(1)})
	assert.ErrorContains(t, err, "FillerKey")
}

func TestNew_RequiresPaymentChainID(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	_, err = New(Config{FillerKey: key})
	assert.ErrorContains(t, err, "PaymentChainID")
}

func TestNew_DerivesFillerAddressFromKey(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	ctx, err := New(Config{FillerKey: key, PaymentChainID: big.NewInt(1)})
	require.NoError(t, err)

	want := ethcrypto.PubkeyToAddress(key.PublicKey)
	assert.Equal(t, want.Bytes(), ctx.FillerAddress().Bytes())
}

func TestPaymentRecipient_MissingChainErrors(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	ctx, err := New(Config{FillerKey: key, PaymentChainID: big.NewInt(1)})
	require.NoError(t, err)

	_, err = ctx.PaymentRecipient(big.NewInt(999))
	assert.ErrorContains(t, err, "no payment recipient")
}

func TestPaymentRecipient_ReturnsConfiguredAddress(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	var recipient xtypes.Address
	recipient[19] = 0x09

	ctx, err := New(Config{
		FillerKey:         key,
		PaymentChainID:    big.NewInt(1),
		PaymentRecipients: map[string]xtypes.Address{"1": recipient},
	})
	require.NoError(t, err)

	got, err := ctx.PaymentRecipient(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, recipient, got)
}

func TestIsWhitelisted_DelegatesToConfiguredList(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	account := xtypes.NewAccount(xtypes.Address{}, big.NewInt(1))
	list := whitelist.New().Allow(account, "spend")

	ctx, err := New(Config{FillerKey: key, PaymentChainID: big.NewInt(1), Whitelist: list})
	require.NoError(t, err)

	assert.True(t, ctx.IsWhitelisted(account, "spend"))
	assert.False(t, ctx.IsWhitelisted(account, "approve"))
}

func TestGetWitnessResolver_DelegatesToConfiguredRegistry(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	reg := witness.NewRegistry()
	reg.MustRegister("signature", stubResolver{})

	ctx, err := New(Config{FillerKey: key, PaymentChainID: big.NewInt(1), Witnesses: reg})
	require.NoError(t, err)

	_, ok := ctx.GetWitnessResolver("signature")
	assert.True(t, ok)
	_, ok = ctx.GetWitnessResolver("missing")
	assert.False(t, ok)
}

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, data []byte, values []abiwire.Value) (abiwire.Value, error) {
	return abiwire.Value{}, nil
}
