package servicetype

import (
	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
)

var DefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "List the built-in service types offered by vault init",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		list, err := app.Store().DefaultServiceTypes(cmd.Context())
		if err != nil {
			return err
		}
		return printTypes(cmd, list)
	},
}
