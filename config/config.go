// Package config loads the solver process's static configuration: RPC
// endpoints per chain, the payment chain, the filler key's secret name,
// secrets backend selection, price-cache sizing, and the ambient
// logging/server settings. Decoded from YAML
// with gopkg.in/yaml.v3, then the
// per-backend secrets block (shape varies per BackendType) is re-decoded
// with github.com/mitchellh/mapstructure, following the per-backend
// factory-map pattern of server/builtin.go.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/xgr-network/xgr-solver/secretsource"
)

// Chain is one chain's RPC endpoint plus the contract address receiving
// payments on it.
type Chain struct {
	ChainID          string `yaml:"chainId"`
	RPCEndpoint      string `yaml:"rpcEndpoint"`
	PaymentRecipient string `yaml:"paymentRecipient"`
}

// Secrets selects and configures one secretsource.Source backend. Raw holds
// the backend-specific block verbatim; Decode re-parses it once Backend is
// known.
type Secrets struct {
	Backend string                 `yaml:"backend"`
	Raw     map[string]interface{} `yaml:"config"`
}

// Decode maps Raw onto a secretsource.Config using mapstructure, since each
// backend only cares about a subset of its fields.
func (s Secrets) Decode() (secretsource.BackendType, secretsource.Config, error) {
	var cfg secretsource.Config
	if err := mapstructure.Decode(s.Raw, &cfg); err != nil {
		return "", secretsource.Config{}, fmt.Errorf("config: decode secrets block: %w", err)
	}
	return secretsource.BackendType(s.Backend), cfg, nil
}

// Server configures the ambient HTTP surfaces (websocket event feed,
// Prometheus scrape endpoint).
type Server struct {
	EventsAddr  string `yaml:"eventsAddr"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// Config is the full static configuration document.
type Config struct {
	LogLevel string `yaml:"logLevel"`

	PaymentChainID string  `yaml:"paymentChainId"`
	Chains         []Chain `yaml:"chains"`

	FillerKeySecretName string  `yaml:"fillerKeySecretName"`
	Secrets             Secrets `yaml:"secrets"`

	PriceCacheSize int           `yaml:"priceCacheSize"`
	PriceCacheTTL  time.Duration `yaml:"priceCacheTTL"`

	Server Server `yaml:"server"`
}

// Load reads and parses the YAML document at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PriceCacheSize == 0 {
		c.PriceCacheSize = 1024
	}
	if c.PriceCacheTTL == 0 {
		c.PriceCacheTTL = 30 * time.Second
	}
	if c.Server.EventsAddr == "" {
		c.Server.EventsAddr = ":8081"
	}
	if c.Server.MetricsAddr == "" {
		c.Server.MetricsAddr = ":9090"
	}
}

// NewLogger builds the process-wide hclog.Logger at the configured level.
func (c Config) NewLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.LevelFromString(c.LogLevel),
	})
}
