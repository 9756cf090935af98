package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <account id>",
	Short: "Delete an account",
	Long:  `Deletes an account. Its services are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}

		if err := app.Store().DeleteAccount(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Account deleted:"), args[0])
		return nil
	},
}
