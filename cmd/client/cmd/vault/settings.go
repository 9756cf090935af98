package vault

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
)

var settingsAutoLock uint32

var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change vault settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()

		settings := store.Snapshot().Settings
		if cmd.Flags().Changed("auto-lock") {
			settings.AutoLockMinutes = settingsAutoLock
			if err := store.UpdateSettings(cmd.Context(), settings); err != nil {
				return err
			}
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), store.Snapshot().Settings)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Auto-lock: %d min\n", store.Snapshot().Settings.AutoLockMinutes)
		return nil
	},
}

func init() {
	SettingsCmd.Flags().Uint32Var(&settingsAutoLock, "auto-lock", 0, "auto-lock timeout in minutes, 0 disables it")
}
