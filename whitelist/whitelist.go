// Package whitelist answers SolverContext.IsWhitelisted lookups from an
// immutable radix tree keyed by chainId‖address‖kind, so a running solver can
// swap in a new whitelist snapshot without blocking in-flight lookups.
package whitelist

import (
	"math/big"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

// List is a point-in-time whitelist snapshot. The zero value is empty and
// whitelists nothing.
type List struct {
	tree *iradix.Tree
}

func New() *List {
	return &List{tree: iradix.New()}
}

func key(account xtypes.Account, kind string) []byte {
	chainID := account.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	out := make([]byte, 0, 32+20+len(kind)+2)
	out = append(out, leftPad32(chainID)...)
	out = append(out, account.Address.Bytes()...)
	out = append(out, '|')
	out = append(out, kind...)
	return out
}

func leftPad32(n *big.Int) []byte {
	buf := make([]byte, 32)
	n.FillBytes(buf)
	return buf
}

// Allow returns a new List with (account, kind) permitted; the receiver is
// unmodified, matching the tree's immutability.
func (l *List) Allow(account xtypes.Account, kind string) *List {
	tree, _, _ := l.tree.Insert(key(account, kind), struct{}{})
	return &List{tree: tree}
}

// Revoke returns a new List with (account, kind) no longer permitted.
func (l *List) Revoke(account xtypes.Account, kind string) *List {
	tree, _, _ := l.tree.Delete(key(account, kind))
	return &List{tree: tree}
}

// IsWhitelisted implements the SolverContext accessor of the same name.
func (l *List) IsWhitelisted(account xtypes.Account, kind string) bool {
	if l == nil || l.tree == nil {
		return false
	}
	_, ok := l.tree.Get(key(account, kind))
	return ok
}

// Len reports how many (account, kind) pairs are currently whitelisted.
func (l *List) Len() int {
	if l == nil || l.tree == nil {
		return 0
	}
	return l.tree.Len()
}
