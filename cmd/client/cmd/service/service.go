package service

import (
	"github.com/spf13/cobra"
)

// ServiceCmd is the parent of the service commands.
var ServiceCmd = &cobra.Command{
	Use:     "service",
	Aliases: []string{"services"},
	Short:   "Manage services",
	Long:    `A service is one set of credentials of a service type, e.g. one mailbox.`,
}
