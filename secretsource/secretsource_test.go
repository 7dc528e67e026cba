package secretsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnsupportedBackendErrors(t *testing.T) {
	t.Parallel()

	_, err := New(BackendType("unknown"), Config{})
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, Supported(Local))
	assert.True(t, Supported(HashicorpVault))
	assert.True(t, Supported(AWSSSM))
	assert.True(t, Supported(GCPSSM))
	assert.False(t, Supported(BackendType("bogus")))
}

func TestLocalSource_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "filler-key"), []byte("deadbeef"), 0o600))

	src, err := New(Local, Config{Path: dir})
	require.NoError(t, err)

	secret, err := src.GetSecret("filler-key")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", string(secret))
}

func TestLocalSource_MissingFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src, err := New(Local, Config{Path: dir})
	require.NoError(t, err)

	_, err = src.GetSecret("does-not-exist")
	assert.Error(t, err)
}

func TestLocalSource_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := New(Local, Config{})
	assert.ErrorContains(t, err, "requires Path")
}
