package plancache

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

func resolverAccount() xtypes.Account {
	var addr xtypes.Address
	addr[19] = 0x01
	return xtypes.NewAccount(addr, big.NewInt(1))
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGet_MissReturnsFalse(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)
	_, ok := c.Get(resolverAccount(), []byte("payload"))
	assert.False(t, ok)
}

func TestPutThenGet_RoundTrips(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)
	r := resolverAccount()
	require.NoError(t, c.Put(r, []byte("payload"), []byte("response")))

	v, ok := c.Get(r, []byte("payload"))
	require.True(t, ok)
	assert.Equal(t, []byte("response"), v)
}

func TestGet_DifferentPayloadMisses(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)
	r := resolverAccount()
	require.NoError(t, c.Put(r, []byte("payload-a"), []byte("response-a")))

	_, ok := c.Get(r, []byte("payload-b"))
	assert.False(t, ok)
}

type fakeCaller struct {
	calls int
	resp  []byte
}

func (f *fakeCaller) Call(ctx context.Context, chainID *big.Int, to xtypes.Address, data []byte) ([]byte, error) {
	f.calls++
	return f.resp, nil
}

func TestCachingCaller_SecondCallHitsCache(t *testing.T) {
	t.Parallel()

	inner := &fakeCaller{resp: []byte("decoded-order")}
	cache := openTestCache(t)
	caller := NewCachingCaller(inner, cache)

	to := xtypes.Address{}
	to[19] = 0x05
	chainID := big.NewInt(1)
	data := []byte("calldata")

	v1, err := caller.Call(context.Background(), chainID, to, data)
	require.NoError(t, err)
	v2, err := caller.Call(context.Background(), chainID, to, data)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.calls, "second call with identical key must hit the cache")
}
