package servicetype

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/domain/schema"
	"credvault/internal/model"
)

var (
	editName    string
	editIcon    string
	editAdd     []string
	editRemove  []string
	editRelabel []string
)

// TypeEdit is a change to an existing service type. Removals run before
// additions, so a field can be recreated under the same key.
type TypeEdit struct {
	Name    *string
	Icon    *string
	Add     []model.ServiceField
	Remove  []string
	Relabel map[string]string
}

// EditType applies e to a copy of st. The type id and the keys of kept
// fields never change.
func EditType(st model.ServiceType, e TypeEdit) (model.ServiceType, error) {
	out := st.Clone()
	if e.Name != nil {
		out.Name = *e.Name
	}
	if e.Icon != nil {
		out.Icon = *e.Icon
	}

	for _, key := range e.Remove {
		i := slices.IndexFunc(out.Fields, func(f model.ServiceField) bool { return f.Key == key })
		if i < 0 {
			return model.ServiceType{}, fmt.Errorf("remove %q: no such field in %q", key, st.ID)
		}
		out.Fields = slices.Delete(out.Fields, i, i+1)
	}
	for key, label := range e.Relabel {
		i := slices.IndexFunc(out.Fields, func(f model.ServiceField) bool { return f.Key == key })
		if i < 0 {
			return model.ServiceType{}, fmt.Errorf("relabel %q: no such field in %q", key, st.ID)
		}
		if strings.TrimSpace(label) == "" {
			return model.ServiceType{}, fmt.Errorf("relabel %q: label is empty", key)
		}
		out.Fields[i].Label = label
	}
	for _, f := range e.Add {
		if f.Key == "" {
			f.Key = schema.GenerateKey(f.Label)
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		out.Fields = append(out.Fields, f)
	}
	return out, nil
}

var EditCmd = &cobra.Command{
	Use:   "edit <type id>",
	Short: "Change a service type",
	Long: `Renames a service type or changes its fields. The id stays the same.

--add-field takes the same definition as "type add --field". --relabel KEY=Label
changes what a field is called without touching stored values. A removed
field's values stay on existing services until they are unset there.`,
	Example: `  credvault type edit discord --relabel email_ref="Login email" \
    --add-field "Recovery codes,textarea,masked" --remove-field avatar`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := TypeEdit{Remove: editRemove}
		if cmd.Flags().Changed("name") {
			e.Name = &editName
		}
		if cmd.Flags().Changed("icon") {
			e.Icon = &editIcon
		}
		for _, spec := range editAdd {
			f, err := ParseField(spec)
			if err != nil {
				return err
			}
			e.Add = append(e.Add, f)
		}
		relabel, err := types.KeyValues(editRelabel)
		if err != nil {
			return err
		}
		e.Relabel = relabel

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()

		st, ok := store.ServiceType(args[0])
		if !ok {
			return fmt.Errorf("service type %q not found", args[0])
		}
		st, err = EditType(st, e)
		if err != nil {
			return err
		}
		if err := store.UpdateServiceType(cmd.Context(), st); err != nil {
			return err
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), st)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Service type updated:"), st.ID)
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVar(&editName, "name", "", "new display name")
	EditCmd.Flags().StringVar(&editIcon, "icon", "", "new icon name")
	EditCmd.Flags().StringArrayVar(&editAdd, "add-field", nil, "append a field definition, repeatable")
	EditCmd.Flags().StringArrayVar(&editRemove, "remove-field", nil, "remove the field with this key, repeatable")
	EditCmd.Flags().StringArrayVar(&editRelabel, "relabel", nil, "rename a field as KEY=Label, repeatable")
}
