package vault

import (
	"github.com/spf13/cobra"
)

// VaultCmd is the parent of the vault lifecycle commands.
var VaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Create and manage the vault",
	Long:  `Vault creation, status, settings and master password change.`,
}
