package servicetype

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/model"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the service types of the vault",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		return printTypes(cmd, app.Store().Snapshot().ServiceTypes)
	},
}

func printTypes(cmd *cobra.Command, list []model.ServiceType) error {
	if types.JSONOutput {
		return types.PrintJSON(cmd.OutOrStdout(), list)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No service types")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tICON\tFIELDS")
	for _, st := range list {
		fields := make([]string, 0, len(st.Fields))
		for _, f := range st.Fields {
			fields = append(fields, describeField(f))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.Name, st.Icon, strings.Join(fields, ", "))
	}
	return w.Flush()
}

func describeField(f model.ServiceField) string {
	s := f.Key + ":" + string(f.Type)
	if f.Type == model.FieldLinkedService {
		s += "->" + f.LinkedServiceTypeID
	}
	if f.Required {
		s += "*"
	}
	return s
}
