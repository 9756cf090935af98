package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/model"
)

var (
	editLabel string
	editNotes string
	editTags  []string
)

// accountEdit carries the flags that were given. Nil means unchanged.
type accountEdit struct {
	Label *string
	Notes *string
	Tags  []string
}

func applyAccountEdit(acc model.Account, e accountEdit) model.Account {
	out := acc.Clone()
	if e.Label != nil {
		out.Label = *e.Label
	}
	if e.Notes != nil {
		out.Notes = *e.Notes
	}
	if e.Tags != nil {
		out.Tags = e.Tags
	}
	return out
}

var EditCmd = &cobra.Command{
	Use:   "edit <account id>",
	Short: "Change an account",
	Long:  `Changes the label, notes or tags of an account. --tag replaces all tags. Links are managed with "account link".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var e accountEdit
		if cmd.Flags().Changed("label") {
			e.Label = &editLabel
		}
		if cmd.Flags().Changed("notes") {
			e.Notes = &editNotes
		}
		if cmd.Flags().Changed("tag") {
			e.Tags = append([]string{}, editTags...)
		}

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()

		acc, ok := store.Snapshot().Account(args[0])
		if !ok {
			return fmt.Errorf("account %q not found", args[0])
		}
		acc = applyAccountEdit(acc, e)
		if err := store.UpdateAccount(cmd.Context(), acc); err != nil {
			return err
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), acc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Account updated:"), acc.ID)
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVarP(&editLabel, "label", "l", "", "new label")
	EditCmd.Flags().StringVar(&editNotes, "notes", "", "new notes, empty to clear")
	EditCmd.Flags().StringSliceVar(&editTags, "tag", nil, "replace the tags")
}
