package pricecache

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

type fakeSource struct {
	tokenCalls int
	gasCalls   int
	price      *big.Int
}

func (f *fakeSource) TokenPriceUsd(ctx context.Context, token xtypes.Account) (*big.Int, error) {
	f.tokenCalls++
	return f.price, nil
}
func (f *fakeSource) GasPriceUsd(ctx context.Context, chainID *big.Int) (*big.Int, error) {
	f.gasCalls++
	return f.price, nil
}

func tokenAccount() xtypes.Account {
	var addr xtypes.Address
	addr[19] = 0xAA
	return xtypes.NewAccount(addr, big.NewInt(1))
}

func TestGetTokenPriceUsd_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	src := &fakeSource{price: big.NewInt(5)}
	c, err := New(src, 16, time.Minute)
	require.NoError(t, err)

	token := tokenAccount()
	p1, err := c.GetTokenPriceUsd(context.Background(), token)
	require.NoError(t, err)
	p2, err := c.GetTokenPriceUsd(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, 0, p1.Cmp(big.NewInt(5)))
	assert.Equal(t, 0, p1.Cmp(p2))
	assert.Equal(t, 1, src.tokenCalls, "second lookup within TTL must hit the cache")
}

func TestGetTokenPriceUsd_RefetchesAfterTTLExpires(t *testing.T) {
	t.Parallel()

	src := &fakeSource{price: big.NewInt(5)}
	c, err := New(src, 16, time.Millisecond)
	require.NoError(t, err)

	token := tokenAccount()
	_, err = c.GetTokenPriceUsd(context.Background(), token)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = c.GetTokenPriceUsd(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 2, src.tokenCalls)
}

func TestGetGasPriceUsd_CachesPerChain(t *testing.T) {
	t.Parallel()

	src := &fakeSource{price: big.NewInt(7)}
	c, err := New(src, 16, time.Minute)
	require.NoError(t, err)

	_, err = c.GetGasPriceUsd(context.Background(), big.NewInt(1))
	require.NoError(t, err)
	_, err = c.GetGasPriceUsd(context.Background(), big.NewInt(2))
	require.NoError(t, err)
	_, err = c.GetGasPriceUsd(context.Background(), big.NewInt(1))
	require.NoError(t, err)

	assert.Equal(t, 2, src.gasCalls, "distinct chains must each fetch once, repeats hit cache")
}
