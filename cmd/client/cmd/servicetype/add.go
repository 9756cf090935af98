package servicetype

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/domain/schema"
	"credvault/internal/model"
)

var (
	addName   string
	addIcon   string
	addFields []string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a service type",
	Long: `Creates a service type. The id is derived from the name and never changes.

Fields are given as --field "Label[,type][,required][,masked][,link=<type id>]"
where type is one of text, secret, textarea, url, 2fa. A link= option makes
the field reference a service of another type.`,
	Example: `  credvault type add --name "Github" --icon Github \
    --field "Username,text,required" --field "Password,secret" --field "Email,link=email"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields := make([]model.ServiceField, 0, len(addFields))
		for _, spec := range addFields {
			f, err := ParseField(spec)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}

		st := schema.NewServiceType(addName, addIcon, fields)
		if err := app.Store().AddServiceType(cmd.Context(), st); err != nil {
			return err
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), st)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Service type created:"), st.ID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&addName, "name", "", "type name")
	AddCmd.Flags().StringVar(&addIcon, "icon", "", "icon name")
	AddCmd.Flags().StringArrayVar(&addFields, "field", nil, "field definition, repeatable")
	_ = AddCmd.MarkFlagRequired("name")
}
