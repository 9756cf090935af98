package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"credvault/cmd/client/cmd/types"
	"credvault/internal/domain/importer"
)

var (
	importSeparator   string
	importType        string
	importMaps        []string
	importLabelColumn int
	importPattern     string
	importStart       int
	importCommit      bool
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import services from delimited text",
	Long: `Turns every line of the input into a new service of --type.

Columns are numbered from 1 and mapped with --map "N=<mapping>" where mapping is
  ignore                      drop the column
  tags                        comma separated tags
  field:<type>:<key>          a field of the imported type
  field:<type>:<key>:<lookup> a linked field, matched against <lookup> of the
                              linked type (defaults to <key>)

Labels come from --label-column or are generated as --pattern followed by a
running number ("Discord " gives "Discord 1", "Discord 2", ...). Numbering
continues after the largest number already used with that prefix.
Without --commit only a preview is shown.`,
	Example: `  credvault import accounts.txt --separator "||" --type discord \
    --map 1=field:discord:username --map 2=field:discord:email_ref:address \
    --map 3=tags --pattern "Discord " --commit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		cfg, err := importConfig(cmd)
		if err != nil {
			return err
		}

		app, err := types.OpenApp(cmd)
		if err != nil {
			return err
		}
		store := app.Store()

		session := importer.NewSession(uuid.NewString)
		if err := session.Parse(input, importSeparator); err != nil {
			return err
		}
		if err := session.Configure(store.Snapshot(), cfg); err != nil {
			return err
		}
		res, err := session.Preview(store.Snapshot())
		if err != nil {
			return err
		}

		if importCommit {
			if res, err = session.Commit(cmd.Context(), store); err != nil {
				return err
			}
		}
		return printImport(cmd, res)
	},
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read import input: %w", err)
	}
	return string(b), nil
}

func importConfig(cmd *cobra.Command) (importer.Config, error) {
	columns, err := parseColumnMaps(importMaps)
	if err != nil {
		return importer.Config{}, err
	}

	cfg := importer.Config{
		PrimaryTypeID: importType,
		Columns:       columns,
		StartNumber:   importStart,
	}
	switch {
	case cmd.Flags().Changed("label-column"):
		if importLabelColumn < 1 {
			return importer.Config{}, fmt.Errorf("--label-column is numbered from 1")
		}
		cfg.Strategy = importer.StrategyMap
		cfg.LabelColumn = importLabelColumn - 1
	case importPattern != "":
		cfg.Strategy = importer.StrategyGenerate
		cfg.Pattern = importPattern
	default:
		return importer.Config{}, fmt.Errorf("either --label-column or --pattern is required")
	}
	return cfg, nil
}

// parseColumnMaps reads "N=<mapping>" with N counted from 1.
func parseColumnMaps(specs []string) (map[int]importer.Mapping, error) {
	columns := make(map[int]importer.Mapping, len(specs))
	for _, spec := range specs {
		col, mapping, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("--map %q: expected N=<mapping>", spec)
		}
		n, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("--map %q: column must be a number from 1", spec)
		}
		m, err := importer.ParseMapping(mapping)
		if err != nil {
			return nil, err
		}
		columns[n-1] = m
	}
	return columns, nil
}

func printImport(cmd *cobra.Command, res importer.Result) error {
	if types.JSONOutput {
		return types.PrintJSON(cmd.OutOrStdout(), res)
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tTAGS\tDATA")
	for _, svc := range res.Services {
		keys := slices.Sorted(maps.Keys(svc.Data))
		data := make([]string, 0, len(keys))
		for _, k := range keys {
			data = append(data, k+"="+types.Truncate(svc.Data[k], 24))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", svc.Label, strings.Join(svc.Tags, ","), strings.Join(data, " "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, s := range res.Skips {
		fmt.Fprintln(out, types.Warning(fmt.Sprintf("row %d skipped (%s): %s", s.Row, s.Reason, s.Detail)))
	}

	summary := fmt.Sprintf("%d accepted, %d skipped", res.Accepted, res.Skipped)
	if importCommit {
		fmt.Fprintln(out, types.Success("Imported: "+summary))
	} else {
		fmt.Fprintln(out, "Preview: "+summary+types.Muted(" (use --commit to save)"))
	}
	return nil
}

func init() {
	importCmd.Flags().StringVar(&importSeparator, "separator", importer.DefaultSeparator, "cell separator")
	importCmd.Flags().StringVarP(&importType, "type", "t", "", "service type id of the imported rows")
	importCmd.Flags().StringArrayVar(&importMaps, "map", nil, "column mapping as N=<mapping>, repeatable")
	importCmd.Flags().IntVar(&importLabelColumn, "label-column", 0, "take labels from this column")
	importCmd.Flags().StringVar(&importPattern, "pattern", "", "generate labels as this prefix plus a running number")
	importCmd.Flags().IntVar(&importStart, "start", 1, "first number for generated labels")
	importCmd.Flags().BoolVar(&importCommit, "commit", false, "save the accepted rows")
	importCmd.MarkFlagsMutuallyExclusive("label-column", "pattern")
	_ = importCmd.MarkFlagRequired("type")
}
