package servicetype

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <type id>",
	Short: "Delete a service type",
	Long: `Deletes a service type. Services of that type are kept and shown as
"Unknown type" until they are deleted too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}

		if err := app.Store().DeleteServiceType(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Service type deleted:"), args[0])
		return nil
	},
}
