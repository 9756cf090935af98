package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	shared "credvault/internal/config"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	Env     string
	Server  server
	Storage storage
	Auth    auth
}

type server struct {
	RunAddress      string
	ShutdownTimeout time.Duration
}

type storage struct {
	Driver      string
	DatabaseURI string
	SQLitePath  string
	VaultName   string
}

type auth struct {
	Token string
}

func MustLoad() *Config {
	if err := shared.LoadDotEnv(".env", "../../.env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg, err := Load(shared.NewViper())
	if err != nil {
		panic(fmt.Sprintf("config error: %v", err))
	}
	return cfg
}

func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_env", shared.EnvLocal)
	v.SetDefault("run_address", "localhost:8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("sqlite_path", "credvault-server.db")
	v.SetDefault("vault_name", "default")

	cfg := &Config{
		Env: v.GetString("app_env"),
		Server: server{
			RunAddress:      v.GetString("run_address"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		Storage: storage{
			Driver:      v.GetString("storage"),
			DatabaseURI: v.GetString("database_uri"),
			SQLitePath:  v.GetString("sqlite_path"),
			VaultName:   v.GetString("vault_name"),
		},
		Auth: auth{Token: v.GetString("api_token")},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !shared.ValidEnv(c.Env) {
		return fmt.Errorf("unknown app_env %q", c.Env)
	}
	if c.Server.RunAddress == "" {
		return fmt.Errorf("run_address must not be empty")
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite_path must not be empty")
		}
	case StoragePostgres:
		if c.Storage.DatabaseURI == "" {
			return fmt.Errorf("database_uri is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage.Driver)
	}
	if c.Env == shared.EnvProd && c.Auth.Token == "" {
		return fmt.Errorf("api_token is required in prod")
	}
	return nil
}
