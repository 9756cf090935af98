package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"credvault/cmd/client/cmd/account"
	"credvault/cmd/client/cmd/service"
	"credvault/cmd/client/cmd/servicetype"
	"credvault/cmd/client/cmd/types"
	"credvault/cmd/client/cmd/vault"
	"credvault/internal/app/client"
	"credvault/internal/app/client/config"
	shared "credvault/internal/config"
	"credvault/internal/utils/logger"
)

var (
	cfgFile     string
	debug       bool
	metricsFile string
	app         *client.App
)

var rootCmd = &cobra.Command{
	Use:   "credvault",
	Short: "credvault - encrypted catalog of accounts and service credentials",
	Long: `credvault keeps accounts, the services they use and the credentials of
those services in one vault encrypted with a master password.

Service types describe which fields a service has. Accounts group services
and can be created in bulk, services can be imported from CSV.

The vault lives in a local SQLite file or behind a credvault server (--backend remote).`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", color.RedString(err.Error()))
		// PersistentPostRunE is skipped when a command fails.
		_ = teardownApp(rootCmd, nil)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var log *slog.Logger
	if debug {
		log = logger.New(shared.EnvDev)
	} else if cfg.Env == shared.EnvProd {
		log = logger.Quiet()
	} else {
		log = logger.New(cfg.Env)
	}

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	cmd.SetContext(types.WithApp(cmd.Context(), app))
	return nil
}

func teardownApp(cmd *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	var errs []error
	if metricsFile != "" {
		if err := app.WriteMetrics(metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := app.Close(cmd.Context()); err != nil {
		errs = append(errs, err)
	}
	app = nil
	return errors.Join(errs...)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := shared.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := shared.NewViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".credvault"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"backend":        "backend",
		"server_address": "server",
		"db_path":        "db",
		"vault_name":     "vault",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	return config.Load(v)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.credvault/config.yaml)")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.BoolVar(&types.JSONOutput, "json", false, "print results as JSON")
	flags.String("backend", "", "vault backend: local or remote")
	flags.String("server", "", "credvault server URL for the remote backend")
	flags.String("db", "", "path of the local vault database")
	flags.String("vault", "", "name of the vault in the local database")
	flags.StringVar(&metricsFile, "metrics-file", "", "write operation metrics to this file on exit")

	rootCmd.AddCommand(vault.VaultCmd)
	vault.VaultCmd.AddCommand(vault.InitCmd)
	vault.VaultCmd.AddCommand(vault.StatusCmd)
	vault.VaultCmd.AddCommand(vault.SettingsCmd)
	vault.VaultCmd.AddCommand(vault.PasswdCmd)

	rootCmd.AddCommand(servicetype.TypeCmd)
	servicetype.TypeCmd.AddCommand(servicetype.ListCmd)
	servicetype.TypeCmd.AddCommand(servicetype.AddCmd)
	servicetype.TypeCmd.AddCommand(servicetype.EditCmd)
	servicetype.TypeCmd.AddCommand(servicetype.DeleteCmd)
	servicetype.TypeCmd.AddCommand(servicetype.DefaultsCmd)

	rootCmd.AddCommand(service.ServiceCmd)
	service.ServiceCmd.AddCommand(service.ListCmd)
	service.ServiceCmd.AddCommand(service.AddCmd)
	service.ServiceCmd.AddCommand(service.EditCmd)
	service.ServiceCmd.AddCommand(service.DeleteCmd)

	rootCmd.AddCommand(account.AccountCmd)
	account.AccountCmd.AddCommand(account.ListCmd)
	account.AccountCmd.AddCommand(account.AddCmd)
	account.AccountCmd.AddCommand(account.EditCmd)
	account.AccountCmd.AddCommand(account.DeleteCmd)
	account.AccountCmd.AddCommand(account.LinkCmd)
	account.AccountCmd.AddCommand(account.BulkCmd)

	rootCmd.AddCommand(importCmd)
}
