package service

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/domain/catalog"
	"credvault/internal/domain/search"
	"credvault/internal/model"
)

const maskedValue = "********"

var (
	listQuery  string
	listType   string
	listTag    string
	listSortBy string
	listOrder  string
	listReveal bool
)

type serviceView struct {
	model.Service
	TypeName    string   `json:"typeName"`
	BrokenLinks []string `json:"brokenLinks,omitempty"`
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List and search services",
	Long: `Lists services, optionally fuzzy-matched against --query and filtered by
type and tag. Sorting is natural, so "Mail 2" comes before "Mail 10".`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		order, err := search.ParseSortOrder(listOrder)
		if err != nil {
			return err
		}
		by := search.SortKey(listSortBy)
		if by != search.ByName && by != search.ByType {
			return fmt.Errorf("unknown sort key %q", listSortBy)
		}

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()
		v := store.Snapshot()

		services := search.Services(v.Services, search.ServiceFilter{
			Query:  listQuery,
			TypeID: listType,
			Tag:    listTag,
		})
		services = search.SortServices(services, v.ServiceTypes, by, order)

		views := make([]serviceView, 0, len(services))
		for _, svc := range services {
			view := serviceView{Service: svc, TypeName: store.ServiceTypeName(svc.ServiceTypeID)}
			for _, f := range store.BrokenLinks(svc) {
				view.BrokenLinks = append(view.BrokenLinks, f.Key)
			}
			if !listReveal {
				view.Service = masked(store, svc)
			}
			views = append(views, view)
		}

		if types.JSONOutput {
			return types.PrintJSON(cmd.OutOrStdout(), views)
		}
		return printServices(cmd, store, views)
	},
}

func masked(store *catalog.Store, svc model.Service) model.Service {
	st, ok := store.ServiceType(svc.ServiceTypeID)
	if !ok {
		return svc
	}
	out := svc.Clone()
	for _, f := range st.Fields {
		if f.Masked && out.Data[f.Key] != "" {
			out.Data[f.Key] = maskedValue
		}
	}
	return out
}

func printServices(cmd *cobra.Command, store *catalog.Store, views []serviceView) error {
	if len(views) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No services found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTYPE\tTAGS\tDATA")
	for _, view := range views {
		typeName := view.TypeName
		if typeName == catalog.UnknownTypeName {
			typeName = types.Warning(typeName)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			view.ID,
			types.Truncate(view.Label, 40),
			typeName,
			strings.Join(view.Tags, ","),
			formatData(store, view),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d\n", len(views))
	return nil
}

func formatData(store *catalog.Store, view serviceView) string {
	keys := make([]string, 0, len(view.Data))
	for k := range view.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		value := view.Data[k]
		if st, ok := store.ServiceType(view.ServiceTypeID); ok {
			if f, ok := st.Field(k); ok && f.Type == model.FieldLinkedService {
				if target, ok := store.Snapshot().Service(value); ok {
					value = "@" + target.Label
				}
			}
		}
		parts = append(parts, k+"="+types.Truncate(value, 30))
	}
	for _, k := range view.BrokenLinks {
		parts = append(parts, types.Warning(k+": broken link"))
	}
	return strings.Join(parts, " ")
}

func init() {
	ListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "fuzzy search over label and tags")
	ListCmd.Flags().StringVarP(&listType, "type", "t", "", "only services of this type id")
	ListCmd.Flags().StringVar(&listTag, "tag", "", "only services with this tag")
	ListCmd.Flags().StringVar(&listSortBy, "sort", string(search.ByName), "sort key: name or type")
	ListCmd.Flags().StringVar(&listOrder, "order", string(search.SortNone), "sort order: none, asc or desc")
	ListCmd.Flags().BoolVar(&listReveal, "reveal", false, "show masked values")
}
