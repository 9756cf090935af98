package vault

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/app/client/config"
)

type statusView struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Where   string `json:"where"`
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a vault exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		status, err := app.Store().CheckStatus(cmd.Context())
		if err != nil {
			return err
		}

		cfg := app.Config()
		view := statusView{Status: string(status), Backend: cfg.Backend, Where: cfg.DBPath}
		if cfg.Backend == config.BackendRemote {
			view.Where = cfg.ServerAddress
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), view)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Status:  %s\nBackend: %s (%s)\n", view.Status, view.Backend, view.Where)
		return nil
	},
}
