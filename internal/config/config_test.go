package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CREDVAULT_TEST_FROM_FILE=yes\nCREDVAULT_TEST_PRESET=file\n"), 0o600))

	t.Setenv("CREDVAULT_TEST_PRESET", "env")
	t.Cleanup(func() { os.Unsetenv("CREDVAULT_TEST_FROM_FILE") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))

	v := NewViper()
	assert.Equal(t, "yes", v.GetString("test_from_file"))
	assert.Equal(t, "env", v.GetString("test_preset"))
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope")))
	assert.NoError(t, LoadDotEnv())
}

func TestValidEnv(t *testing.T) {
	assert.True(t, ValidEnv(EnvLocal))
	assert.True(t, ValidEnv(EnvProd))
	assert.False(t, ValidEnv("staging"))
}
