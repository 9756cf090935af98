package vault

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/app/client/crypto"
	"credvault/internal/domain/catalog"
	"credvault/internal/model"
)

var (
	initTypes    []string
	initNoTypes  bool
	initAutoLock uint32
)

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new vault",
	Long: `Creates a vault protected by a master password.

The vault starts with the built-in service types, all of them unless --types
names some or --no-types is given. There is no way to recover the data
without the master password.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		store := app.Store()

		status, err := store.CheckStatus(ctx)
		if err != nil {
			return err
		}
		if status != catalog.StatusNeedsSetup {
			return fmt.Errorf("a vault already exists")
		}

		library, err := store.DefaultServiceTypes(ctx)
		if err != nil {
			return err
		}
		selected, err := selectTypes(library)
		if err != nil {
			return err
		}

		password := app.Config().Password
		if password == "" {
			password, err = types.ReadNewPassword(cmd.ErrOrStderr(), "New master password: ")
			if err != nil {
				return err
			}
		}
		if strength := crypto.CheckPasswordStrength(password); strength == crypto.PasswordWeak {
			fmt.Fprintln(cmd.ErrOrStderr(), types.Warning("Warning: the master password is weak"))
		}

		settings := model.Settings{AutoLockMinutes: initAutoLock}
		if err := store.CreateVault(ctx, password, settings, selected); err != nil {
			return err
		}

		v := store.Snapshot()
		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), v)
		}
		fmt.Fprintln(cmd.OutOrStdout(), types.Success("Vault created"))
		for _, st := range v.ServiceTypes {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", st.ID, types.Muted(st.Name))
		}
		return nil
	},
}

func selectTypes(library []model.ServiceType) ([]string, error) {
	if initNoTypes {
		return []string{}, nil
	}
	ids := make([]string, 0, len(library))
	for _, st := range library {
		ids = append(ids, st.ID)
	}
	if len(initTypes) == 0 {
		return ids, nil
	}
	for _, id := range initTypes {
		if !slices.Contains(ids, id) {
			return nil, fmt.Errorf("unknown built-in service type %q", id)
		}
	}
	return initTypes, nil
}

func init() {
	InitCmd.Flags().StringSliceVar(&initTypes, "types", nil, "built-in service types to start with (see: credvault type defaults)")
	InitCmd.Flags().BoolVar(&initNoTypes, "no-types", false, "start without any service type")
	InitCmd.Flags().Uint32Var(&initAutoLock, "auto-lock", 15, "auto-lock timeout in minutes, 0 disables it")
	InitCmd.MarkFlagsMutuallyExclusive("types", "no-types")
}
