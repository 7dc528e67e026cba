// Package command wires the solver's process-level pieces (config,
// secrets, chain context, witness/whitelist/pricecache) into the cobra
// subcommands under resolve/, quote/, fill/, process/, following
// command/root/root.go's RootCommand shape and command/default.go's flag
// conventions.
package command

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/xgr-network/xgr-solver/config"
	"github.com/xgr-network/xgr-solver/ethgoctx"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/pricecache"
	"github.com/xgr-network/xgr-solver/secretsource"
	"github.com/xgr-network/xgr-solver/solverctx"
	"github.com/xgr-network/xgr-solver/whitelist"
	"github.com/xgr-network/xgr-solver/witness"
	"github.com/xgr-network/xgr-solver/witness/signature"
)

const (
	ConfigFlag = "config"
)

// constantPriceSource is the no-oracle-wired-yet pricing backend: every
// deployment is expected to supply its own Source, but the CLI needs
// something to construct a working pricecache.Cache against out of the
// box.
type constantPriceSource struct{}

func (constantPriceSource) TokenPriceUsd(ctx context.Context, token xtypes.Account) (*big.Int, error) {
	return nil, fmt.Errorf("command: no pricing oracle configured for token %s", token)
}

func (constantPriceSource) GasPriceUsd(ctx context.Context, chainID *big.Int) (*big.Int, error) {
	return nil, fmt.Errorf("command: no pricing oracle configured for chain %s", chainID)
}

// BuildContext loads cfg's static config file and assembles a concrete
// ethgoctx.Context from it: dials the filler key from the configured
// secrets backend, registers the signature witness resolver, and starts
// with an empty whitelist (a running deployment loads its own allow-list
// separately; this wiring only proves the pieces fit together).
func BuildContext(cfgPath string) (*ethgoctx.Context, config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, config.Config{}, err
	}

	fillerKey, err := loadFillerKey(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}

	paymentChainID, ok := new(big.Int).SetString(cfg.PaymentChainID, 10)
	if !ok {
		return nil, config.Config{}, fmt.Errorf("command: invalid paymentChainId %q", cfg.PaymentChainID)
	}

	endpoints := make(map[string]string, len(cfg.Chains))
	recipients := make(map[string]xtypes.Address, len(cfg.Chains))
	for _, chain := range cfg.Chains {
		endpoints[chain.ChainID] = chain.RPCEndpoint
		if chain.PaymentRecipient != "" {
			addr, err := parseAddress(chain.PaymentRecipient)
			if err != nil {
				return nil, config.Config{}, fmt.Errorf("command: chain %s: %w", chain.ChainID, err)
			}
			recipients[chain.ChainID] = addr
		}
	}

	reg := witness.NewRegistry()
	reg.MustRegister(signature.Kind, signature.New())

	priceCache, err := pricecache.New(constantPriceSource{}, cfg.PriceCacheSize, cfg.PriceCacheTTL)
	if err != nil {
		return nil, config.Config{}, err
	}

	sctx, err := ethgoctx.New(ethgoctx.Config{
		Endpoints:         endpoints,
		FillerKey:         fillerKey,
		PaymentChainID:    paymentChainID,
		PaymentRecipients: recipients,
		Whitelist:         whitelist.New(),
		Witnesses:         reg,
		PriceCache:        priceCache,
	})
	if err != nil {
		return nil, config.Config{}, err
	}
	return sctx, cfg, nil
}

func loadFillerKey(cfg config.Config) (*ecdsa.PrivateKey, error) {
	backend, scfg, err := cfg.Secrets.Decode()
	if err != nil {
		return nil, err
	}
	source, err := secretsource.New(backend, scfg)
	if err != nil {
		return nil, err
	}
	raw, err := source.GetSecret(cfg.FillerKeySecretName)
	if err != nil {
		return nil, fmt.Errorf("command: load filler key: %w", err)
	}
	key, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("command: parse filler key: %w", err)
	}
	return key, nil
}

// PublicCaller adapts a SolverContext's public client into codec.Resolve's
// ChainCaller shape.
type PublicCaller struct {
	Ctx solverctx.SolverContext
}

func (c PublicCaller) Call(ctx context.Context, chainID *big.Int, to xtypes.Address, data []byte) ([]byte, error) {
	pc, err := c.Ctx.GetPublicClient(chainID)
	if err != nil {
		return nil, err
	}
	return pc.Call(ctx, solverctx.CallRequest{To: to, Data: data})
}

func parseAddress(hexStr string) (xtypes.Address, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
	if err != nil {
		return xtypes.Address{}, fmt.Errorf("command: parse address %q: %w", hexStr, err)
	}
	return xtypes.AddressFromBytes(b)
}
