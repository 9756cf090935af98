package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shared "credvault/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	v := viper.New()
	v.Set("config_dir", dir)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, shared.EnvProd, cfg.Env)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "vault.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "vault.db.lock"), cfg.LockPath)
	assert.Equal(t, "default", cfg.VaultName)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CREDVAULT_BACKEND", BackendRemote)
	t.Setenv("CREDVAULT_SERVER_ADDRESS", "http://vault.internal:9000")
	t.Setenv("CREDVAULT_API_TOKEN", "tok")
	t.Setenv("CREDVAULT_APP_ENV", shared.EnvLocal)
	t.Setenv("CREDVAULT_CONFIG_DIR", t.TempDir())

	cfg, err := Load(shared.NewViper())
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "http://vault.internal:9000", cfg.ServerAddress)
	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, shared.EnvLocal, cfg.Env)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "backend", "ftp"},
		{"unknown env", "app_env", "staging"},
		{"empty vault name", "vault_name", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("config_dir", t.TempDir())
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
