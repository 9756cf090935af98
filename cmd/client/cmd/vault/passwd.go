package vault

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/app/client/crypto"
)

var PasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the master password",
	Long: `Re-encrypts the vault with a new master password.

The current password is asked for even when CREDVAULT_PASSWORD is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.ErrOrStderr()

		oldPassword, err := types.ReadPassword(out, "Current master password: ")
		if err != nil {
			return err
		}
		if err := app.Open(ctx, oldPassword); err != nil {
			return err
		}

		newPassword, err := types.ReadNewPassword(out, "New master password: ")
		if err != nil {
			return err
		}
		if crypto.CheckPasswordStrength(newPassword) == crypto.PasswordWeak {
			fmt.Fprintln(out, types.Warning("Warning: the new master password is weak"))
		}

		if err := app.Store().ChangePassword(ctx, oldPassword, newPassword); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), types.Success("Master password changed"))
		return nil
	},
}
