package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/model"
)

var (
	addLabel string
	addNotes string
	addTags  []string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}

		acc, err := app.Store().AddAccount(cmd.Context(), model.Account{
			Label: addLabel,
			Notes: addNotes,
			Tags:  addTags,
		})
		if err != nil {
			return err
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), acc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", types.Success("Account created:"), acc.ID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&addLabel, "label", "l", "", "account label")
	AddCmd.Flags().StringVar(&addNotes, "notes", "", "free text notes")
	AddCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tags")
	_ = AddCmd.MarkFlagRequired("label")
}
