package account

import (
	"github.com/spf13/cobra"
)

// AccountCmd is the parent of the account commands.
var AccountCmd = &cobra.Command{
	Use:     "account",
	Aliases: []string{"accounts"},
	Short:   "Manage accounts",
	Long:    `An account groups the services one identity uses.`,
}
