// Package secretsource abstracts where the filler's signing key and any
// oracle API keys come from, following the secretsManagerBackends
// factory-map idiom (server/builtin.go) generalized from consensus backends
// to secret backends.
package secretsource

import "fmt"

// BackendType names a supported secret backend.
type BackendType string

const (
	Local          BackendType = "local"
	HashicorpVault BackendType = "hashicorpvault"
	AWSSSM         BackendType = "awsssm"
	GCPSSM         BackendType = "gcpssm"
)

// Config is the minimal, backend-agnostic configuration every Factory
// receives; backends ignore fields they don't need.
type Config struct {
	Path      string // local: file path. vault: secret path. ssm: parameter name/prefix.
	Address   string // vault server address.
	Token     string // vault token.
	Region    string // aws region.
	ProjectID string // gcp project id.
}

// Source resolves named secrets (e.g. "filler-private-key", "oracle-api-key").
type Source interface {
	GetSecret(name string) ([]byte, error)
}

// Factory builds a Source from Config, mirroring consensus.Factory's shape.
type Factory func(cfg Config) (Source, error)

var backends = map[BackendType]Factory{
	Local:          newLocalSource,
	HashicorpVault: newVaultSource,
	AWSSSM:         newAWSSSMSource,
	GCPSSM:         newGCPSSMSource,
}

// New builds a Source for backend, the same dispatch server/builtin.go
// performs over consensusBackends/secretsManagerBackends.
func New(backend BackendType, cfg Config) (Source, error) {
	factory, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("secretsource: unsupported backend %q", backend)
	}
	return factory(cfg)
}

// Supported reports whether backend has a registered factory.
func Supported(backend BackendType) bool {
	_, ok := backends[backend]
	return ok
}
