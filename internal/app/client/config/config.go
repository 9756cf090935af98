package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	shared "credvault/internal/config"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"

	defaultServerAddress = "http://localhost:8080"
	defaultConfigDir     = ".credvault"
)

type Config struct {
	Env           string
	Backend       string
	ConfigDir     string
	DBPath        string
	LockPath      string
	VaultName     string
	ServerAddress string
	APIToken      string
	// Password is read from CREDVAULT_PASSWORD and skips the prompt when set.
	Password string
}

// MustLoad loads .env, then the environment, and panics on an invalid config.
func MustLoad() *Config {
	if err := shared.LoadDotEnv(".env", "../.env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg, err := Load(shared.NewViper())
	if err != nil {
		panic(fmt.Sprintf("config error: %v", err))
	}
	return cfg
}

// Load reads the configuration from v and creates the data directory.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_env", shared.EnvProd)
	v.SetDefault("backend", BackendLocal)
	v.SetDefault("server_address", defaultServerAddress)
	v.SetDefault("vault_name", "default")

	configDir := v.GetString("config_dir")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configDir = filepath.Join(home, defaultConfigDir)
	}

	cfg := &Config{
		Env:           v.GetString("app_env"),
		Backend:       v.GetString("backend"),
		ConfigDir:     configDir,
		DBPath:        v.GetString("db_path"),
		LockPath:      v.GetString("lock_path"),
		VaultName:     v.GetString("vault_name"),
		ServerAddress: v.GetString("server_address"),
		APIToken:      v.GetString("api_token"),
		Password:      v.GetString("password"),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(configDir, "vault.db")
	}
	if cfg.LockPath == "" {
		cfg.LockPath = cfg.DBPath + ".lock"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == BackendLocal {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !shared.ValidEnv(c.Env) {
		return fmt.Errorf("unknown app_env %q", c.Env)
	}
	switch c.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.ServerAddress == "" {
			return fmt.Errorf("server_address is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.VaultName == "" {
		return fmt.Errorf("vault_name must not be empty")
	}
	return nil
}
