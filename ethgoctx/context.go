package ethgoctx

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/pricecache"
	"github.com/xgr-network/xgr-solver/solverctx"
	"github.com/xgr-network/xgr-solver/whitelist"
	"github.com/xgr-network/xgr-solver/witness"
)

// Config is everything a running solver process needs to wire up a Context:
// one JSON-RPC endpoint per chain, the filler's signing key, the chains'
// payment-recipient addresses, and the supporting caches/registries built
// elsewhere (whitelist, witness, pricecache).
type Config struct {
	Endpoints         map[string]string // chainID.String() -> JSON-RPC URL
	FillerKey         *ecdsa.PrivateKey
	PaymentChainID    *big.Int
	PaymentRecipients map[string]xtypes.Address // chainID.String() -> recipient

	Whitelist  *whitelist.List
	Witnesses  *witness.Registry
	PriceCache *pricecache.Cache
}

// Context is the concrete solverctx.SolverContext binding: real chain
// clients fronted by the rpc.DialContext idiom, backed by the
// in-process whitelist/witness/pricecache packages.
type Context struct {
	cfg    Config
	pool   *clientPool
	filler xtypes.Address
}

func New(cfg Config) (*Context, error) {
	if cfg.FillerKey == nil {
		return nil, fmt.Errorf("ethgoctx: FillerKey is required")
	}
	if cfg.PaymentChainID == nil {
		return nil, fmt.Errorf("ethgoctx: PaymentChainID is required")
	}
	fillerAddr, err := xtypes.AddressFromBytes(ethcrypto.PubkeyToAddress(cfg.FillerKey.PublicKey).Bytes())
	if err != nil {
		return nil, fmt.Errorf("ethgoctx: derive filler address: %w", err)
	}
	return &Context{
		cfg:    cfg,
		pool:   newClientPool(cfg.Endpoints),
		filler: fillerAddr,
	}, nil
}

// Close releases every dialed RPC client.
func (c *Context) Close() { c.pool.closeAll() }

func (c *Context) GetPublicClient(chainID *big.Int) (solverctx.PublicClient, error) {
	cl, err := c.pool.get(context.Background(), chainID)
	if err != nil {
		return nil, err
	}
	return &publicClient{cl: cl}, nil
}

func (c *Context) GetWalletClient(chainID *big.Int) (solverctx.WalletClient, error) {
	cl, err := c.pool.get(context.Background(), chainID)
	if err != nil {
		return nil, err
	}
	return newWalletClient(cl, chainID, c.cfg.FillerKey), nil
}

func (c *Context) PaymentChain() *big.Int { return c.cfg.PaymentChainID }

func (c *Context) PaymentRecipient(chainID *big.Int) (xtypes.Address, error) {
	addr, ok := c.cfg.PaymentRecipients[chainID.String()]
	if !ok {
		return xtypes.Address{}, fmt.Errorf("ethgoctx: no payment recipient configured for chain %s", chainID.String())
	}
	return addr, nil
}

func (c *Context) FillerAddress() xtypes.Address { return c.filler }

func (c *Context) IsWhitelisted(account xtypes.Account, kind string) bool {
	return c.cfg.Whitelist.IsWhitelisted(account, kind)
}

func (c *Context) GetWitnessResolver(kind string) (solverctx.WitnessResolver, bool) {
	return c.cfg.Witnesses.Get(kind)
}

func (c *Context) GetTokenPriceUsd(token xtypes.Account) (*big.Int, error) {
	return c.cfg.PriceCache.GetTokenPriceUsd(context.Background(), token)
}

func (c *Context) GetGasPriceUsd(chainID *big.Int) (*big.Int, error) {
	return c.cfg.PriceCache.GetGasPriceUsd(context.Background(), chainID)
}
