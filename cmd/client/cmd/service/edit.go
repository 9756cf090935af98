package service

import (
	"fmt"
	"maps"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/model"
)

var (
	editLabel string
	editSet   []string
	editUnset []string
	editTags  []string
)

// serviceEdit holds the changes requested on the command line.
// Nil fields are left as stored.
type serviceEdit struct {
	Label *string
	Set   map[string]string
	Unset []string
	Tags  []string
}

// applyServiceEdit returns a copy of svc with the edit applied. The id and the
// type never change.
func applyServiceEdit(svc model.Service, e serviceEdit) (model.Service, error) {
	out := svc.Clone()
	if out.Data == nil {
		out.Data = map[string]string{}
	}
	if e.Label != nil {
		out.Label = *e.Label
	}
	for _, key := range e.Unset {
		if _, ok := out.Data[key]; !ok {
			return model.Service{}, fmt.Errorf("--unset %q: service has no such field", key)
		}
		if _, also := e.Set[key]; also {
			return model.Service{}, fmt.Errorf("field %q is both set and unset", key)
		}
		delete(out.Data, key)
	}
	maps.Copy(out.Data, e.Set)
	if e.Tags != nil {
		out.Tags = e.Tags
	}
	return out, nil
}

var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a service",
	Long: `Changes the label, field values or tags of a service. Only the given flags
are applied, everything else keeps its stored value. --tag replaces all tags.
Fields left over from an older version of the type stay untouched unless
removed with --unset.`,
	Example: `  credvault service edit 3f0c... --label "Old mail" --set password=n3w
  credvault service edit 3f0c... --unset recovery --tag archived`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := serviceEdit{Unset: editUnset}
		if cmd.Flags().Changed("label") {
			e.Label = &editLabel
		}
		if cmd.Flags().Changed("tag") {
			e.Tags = append([]string{}, editTags...)
		}
		set, err := types.KeyValues(editSet)
		if err != nil {
			return err
		}
		e.Set = set

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()

		svc, ok := store.Snapshot().Service(args[0])
		if !ok {
			return fmt.Errorf("service %q not found", args[0])
		}
		svc, err = applyServiceEdit(svc, e)
		if err != nil {
			return err
		}
		if err := store.UpdateService(cmd.Context(), svc); err != nil {
			return err
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), svc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Service updated:"), svc.ID)
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVarP(&editLabel, "label", "l", "", "new label")
	EditCmd.Flags().StringArrayVarP(&editSet, "set", "d", nil, "field value as key=value, repeatable")
	EditCmd.Flags().StringArrayVar(&editUnset, "unset", nil, "remove the stored value of this field key, repeatable")
	EditCmd.Flags().StringSliceVar(&editTags, "tag", nil, "replace the tags")
}
