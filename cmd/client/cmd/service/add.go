package service

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/model"
)

var (
	addType    string
	addLabel   string
	addData    []string
	addTags    []string
	addAccount string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a service",
	Long: `Creates a service of the given type. Data is passed as --data key=value
using the field keys shown by "credvault type list". A linked field takes the
id of the target service.`,
	Example: `  credvault service add --type email --label "Main mail" \
    --data address=me@example.com --data password=hunter2 --tag personal`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := types.KeyValues(addData)
		if err != nil {
			return err
		}

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}

		svc, err := app.Store().AddService(cmd.Context(), model.Service{
			ServiceTypeID: addType,
			Label:         addLabel,
			Data:          data,
			Tags:          addTags,
		}, addAccount)
		if err != nil {
			return err
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), svc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Service created:"), svc.ID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&addType, "type", "t", "", "service type id")
	AddCmd.Flags().StringVarP(&addLabel, "label", "l", "", "service label")
	AddCmd.Flags().StringArrayVarP(&addData, "data", "d", nil, "field value as key=value, repeatable")
	AddCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tags")
	AddCmd.Flags().StringVar(&addAccount, "account", "", "link the new service to this account id")
	_ = AddCmd.MarkFlagRequired("type")
	_ = AddCmd.MarkFlagRequired("label")
}
