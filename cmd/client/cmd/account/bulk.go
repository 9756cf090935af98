package account

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/domain/bulk"
	"credvault/internal/model"
)

var (
	bulkCount    int
	bulkTemplate string
	bulkStart    int
	bulkTags     []string
	bulkNotes    string
	bulkServices []string
	bulkDryRun   bool
)

var BulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Create numbered accounts in one go",
	Long: `Creates --count accounts named after --template, where %n% is replaced by
a running number starting at --start. Every --service "type:template[:tag|tag]"
adds one empty service of that type per account, named the same way.

Labels that already exist are reported but still created.`,
	Example: `  credvault account bulk --count 10 --template "Farm %n%" --start 1 \
    --service "email:Mail %n%" --service "discord:Discord %n%:farm"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := bulkRequest()
		if err != nil {
			return err
		}

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()

		plan, err := bulk.Generate(store.Snapshot(), req, uuid.NewString)
		if err != nil {
			return err
		}
		for _, label := range plan.Collisions {
			fmt.Fprintln(cmd.ErrOrStderr(), types.Warning("Label already used: "+label))
		}

		if bulkDryRun {
			if types.JSONOutput {
				return types.PrintJSON(cmd.OutOrStdout(), plan)
			}
			for _, acc := range plan.Accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d services)\n", acc.Label, len(acc.LinkedServices))
			}
			return nil
		}

		if err := store.BulkCreateAccounts(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d accounts, %d services\n",
			types.Success("Created"), len(plan.Accounts), len(plan.Services))
		return nil
	},
}

func bulkRequest() (model.BulkCreateRequest, error) {
	req := model.BulkCreateRequest{
		AccountConfig: model.BulkAccountConfig{
			Count:        bulkCount,
			NameTemplate: bulkTemplate,
			StartNumber:  bulkStart,
			Tags:         bulkTags,
			Notes:        bulkNotes,
		},
		LinkServices: len(bulkServices) > 0,
	}
	for _, spec := range bulkServices {
		sc, err := ParseServiceConfig(spec)
		if err != nil {
			return model.BulkCreateRequest{}, err
		}
		req.ServiceConfigs = append(req.ServiceConfigs, sc)
	}
	return req, nil
}

// ParseServiceConfig reads "type:template" or "type:template:tag|tag".
func ParseServiceConfig(spec string) (model.ServiceLinkConfig, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return model.ServiceLinkConfig{}, fmt.Errorf("service %q: expected type:template[:tags]", spec)
	}

	sc := model.ServiceLinkConfig{
		ServiceTypeID: strings.TrimSpace(parts[0]),
		NameTemplate:  parts[1],
		Tags:          []string{},
	}
	if len(parts) == 3 {
		for _, t := range strings.Split(parts[2], "|") {
			if t = strings.TrimSpace(t); t != "" {
				sc.Tags = append(sc.Tags, t)
			}
		}
	}
	return sc, nil
}

func init() {
	BulkCmd.Flags().IntVarP(&bulkCount, "count", "n", 1, "number of accounts")
	BulkCmd.Flags().StringVar(&bulkTemplate, "template", "", "account label template containing %n%")
	BulkCmd.Flags().IntVar(&bulkStart, "start", 1, "first number")
	BulkCmd.Flags().StringSliceVar(&bulkTags, "tag", nil, "tags of every account")
	BulkCmd.Flags().StringVar(&bulkNotes, "notes", "", "notes of every account")
	BulkCmd.Flags().StringArrayVar(&bulkServices, "service", nil, "service per account as type:template[:tag|tag], repeatable")
	BulkCmd.Flags().BoolVar(&bulkDryRun, "dry-run", false, "only show what would be created")
	_ = BulkCmd.MarkFlagRequired("template")
}
