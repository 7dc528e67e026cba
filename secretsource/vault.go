package secretsource

import (
	"fmt"

	vaultapi "github.com/hashicorp/vault/api"
)

// vaultSource reads a secret's "value" field from a KV path in Hashicorp
// Vault.
type vaultSource struct {
	client *vaultapi.Client
	path   string
}

func newVaultSource(cfg Config) (Source, error) {
	if cfg.Address == "" || cfg.Path == "" {
		return nil, fmt.Errorf("secretsource: vault backend requires Address and Path")
	}

	vcfg := vaultapi.DefaultConfig()
	vcfg.Address = cfg.Address

	client, err := vaultapi.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("secretsource: vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	return &vaultSource{client: client, path: cfg.Path}, nil
}

func (v *vaultSource) GetSecret(name string) ([]byte, error) {
	secret, err := v.client.Logical().Read(v.path + "/" + name)
	if err != nil {
		return nil, fmt.Errorf("secretsource: vault read %s/%s: %w", v.path, name, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secretsource: vault: no secret at %s/%s", v.path, name)
	}

	value, ok := secret.Data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("secretsource: vault: secret at %s/%s missing string field %q", v.path, name, "value")
	}
	return []byte(value), nil
}
