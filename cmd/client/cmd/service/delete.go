package service

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <service id>...",
	Short: "Delete services",
	Long:  `Deletes services and removes them from every account they are linked to.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}

		store := app.Store()
		if len(args) == 1 {
			err = store.DeleteService(cmd.Context(), args[0])
		} else {
			err = store.DeleteServices(cmd.Context(), args)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", types.Success("Services deleted:"), len(args))
		return nil
	},
}
