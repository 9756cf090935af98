package account

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/domain/search"
	"credvault/internal/model"
)

var (
	listQuery    string
	listTag      string
	listOrder    string
	listShowTags bool
)

type accountView struct {
	model.Account
	Services []string `json:"services"`
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List and search accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		order, err := search.ParseSortOrder(listOrder)
		if err != nil {
			return err
		}

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()
		v := store.Snapshot()

		if listShowTags {
			tags := search.AllTags(v.Accounts)
			if types.JSONOutput {
				return types.PrintJSON(cmd.OutOrStdout(), tags)
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		}

		accounts := search.Accounts(v.Accounts, search.AccountFilter{Query: listQuery, Tag: listTag})
		accounts = search.SortAccounts(accounts, order)

		views := make([]accountView, 0, len(accounts))
		for _, acc := range accounts {
			view := accountView{Account: acc, Services: []string{}}
			for _, svc := range store.LinkedServices(acc.ID) {
				view.Services = append(view.Services, svc.Label)
			}
			views = append(views, view)
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), views)
		}
		if len(views) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No accounts found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tTAGS\tSERVICES\tNOTES")
		for _, view := range views {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				view.ID,
				types.Truncate(view.Label, 40),
				strings.Join(view.Tags, ","),
				types.Truncate(strings.Join(view.Services, ", "), 50),
				types.Muted(types.Truncate(view.Notes, 30)),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d\n", len(views))
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "fuzzy search over label, notes and tags")
	ListCmd.Flags().StringVar(&listTag, "tag", "", "only accounts with this tag")
	ListCmd.Flags().StringVar(&listOrder, "order", string(search.SortNone), "sort by label: none, asc or desc")
	ListCmd.Flags().BoolVar(&listShowTags, "tags", false, "list the distinct account tags instead")
}
