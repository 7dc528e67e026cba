package secretsource

import (
	"fmt"
	"os"
	"path/filepath"
)

// localSource reads each secret from Path/<name>, the on-disk layout the
// teacher's local secrets backend uses for per-key files.
type localSource struct {
	dir string
}

func newLocalSource(cfg Config) (Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("secretsource: local backend requires Path")
	}
	return &localSource{dir: cfg.Path}, nil
}

func (l *localSource) GetSecret(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("secretsource: local: %w", err)
	}
	return data, nil
}
