package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shared "credvault/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, shared.EnvLocal, cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.Server.RunAddress)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "default", cfg.Storage.VaultName)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{"postgres without uri", map[string]any{"storage": StoragePostgres}, true},
		{"postgres with uri", map[string]any{"storage": StoragePostgres, "database_uri": "postgres://localhost/cv"}, false},
		{"memory", map[string]any{"storage": StorageMemory}, false},
		{"unknown storage", map[string]any{"storage": "s3"}, true},
		{"prod without token", map[string]any{"app_env": shared.EnvProd}, true},
		{"prod with token", map[string]any{"app_env": shared.EnvProd, "api_token": "t"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}
			_, err := Load(v)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
