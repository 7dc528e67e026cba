package whitelist

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

func accountOf(n byte, chainID int64) xtypes.Account {
	var addr xtypes.Address
	addr[19] = n
	return xtypes.NewAccount(addr, big.NewInt(chainID))
}

func TestIsWhitelisted_EmptyListRejectsEverything(t *testing.T) {
	t.Parallel()

	l := New()
	assert.False(t, l.IsWhitelisted(accountOf(1, 1), "oracle"))
}

func TestAllow_GrantsExactMatchOnly(t *testing.T) {
	t.Parallel()

	l := New().Allow(accountOf(1, 1), "oracle")

	assert.True(t, l.IsWhitelisted(accountOf(1, 1), "oracle"))
	assert.False(t, l.IsWhitelisted(accountOf(1, 1), "resolver"), "different kind must not match")
	assert.False(t, l.IsWhitelisted(accountOf(2, 1), "oracle"), "different address must not match")
	assert.False(t, l.IsWhitelisted(accountOf(1, 2), "oracle"), "different chain must not match")
}

func TestAllow_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := New()
	grown := base.Allow(accountOf(1, 1), "oracle")

	assert.False(t, base.IsWhitelisted(accountOf(1, 1), "oracle"))
	assert.True(t, grown.IsWhitelisted(accountOf(1, 1), "oracle"))
}

func TestRevoke_RemovesPreviouslyAllowedEntry(t *testing.T) {
	t.Parallel()

	l := New().Allow(accountOf(1, 1), "oracle")
	l = l.Revoke(accountOf(1, 1), "oracle")

	assert.False(t, l.IsWhitelisted(accountOf(1, 1), "oracle"))
}
