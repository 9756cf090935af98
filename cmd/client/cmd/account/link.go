package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
)

var LinkCmd = &cobra.Command{
	Use:   "link <account id> <service id>...",
	Short: "Link services to an account",
	Long:  `Adds services to an account. Services already linked are left as they are.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}

		store := app.Store()
		if err := store.LinkServicesToAccount(cmd.Context(), args[0], args[1:]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d services\n", types.Success("Account links:"), len(store.LinkedServices(args[0])))
		return nil
	},
}
