package signature

import (
	"context"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/xgr-network/xgr-solver/abiwire"
)

func sign(t *testing.T, priv *btcec.PrivateKey, values []abiwire.Value) []byte {
	t.Helper()
	h := sha3.NewLegacyKeccak256()
	for _, v := range values {
		h.Write(v.Encoding)
	}
	sig := ecdsa.Sign(priv, h.Sum(nil))

	data := make([]byte, 0, pubKeyLen+len(sig.Serialize()))
	data = append(data, priv.PubKey().SerializeCompressed()...)
	data = append(data, sig.Serialize()...)
	return data
}

func TestResolve_ValidSignatureReturnsSignerAddress(t *testing.T) {
	t.Parallel()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	values := []abiwire.Value{abiwire.EncodeUint256(big.NewInt(42))}
	data := sign(t, priv, values)

	v, err := New().Resolve(context.Background(), data, values)
	require.NoError(t, err)
	assert.Equal(t, abiwire.EncodeAddress(addressOf(priv.PubKey())).Encoding, v.Encoding)
}

func TestResolve_RejectsTamperedValues(t *testing.T) {
	t.Parallel()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	values := []abiwire.Value{abiwire.EncodeUint256(big.NewInt(42))}
	data := sign(t, priv, values)

	tampered := []abiwire.Value{abiwire.EncodeUint256(big.NewInt(43))}
	_, err = New().Resolve(context.Background(), data, tampered)
	assert.ErrorContains(t, err, "verification failed")
}

func TestResolve_RejectsShortData(t *testing.T) {
	t.Parallel()

	_, err := New().Resolve(context.Background(), []byte{1, 2, 3}, nil)
	assert.ErrorContains(t, err, "too short")
}
