package cmd

import (
	"context"
	"fmt"

	"data-reconciler/core/config"
	"data-reconciler/core/logger"

	"github.com/spf13/cobra"
)

var (
	inspectOutput string
	inspectLimit  int
	inspectSortBy []string
	inspectDesc   bool
)

// inspectCmd loads one dataset and prints its schema and first rows.
var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset>",
	Short: "Load a dataset and show its schema and first rows",
	Long: `Loads a dataset with the same rules as compare and prints the status line
"<file> :: <rows> rows :: <columns> columns", the inferred column kinds and a
preview of the rows. --sort-by orders the preview by the given columns; missing
values always sort last.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(inspectOutput)
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		resolver, _, err := newResolver(cfg, l, args[0])
		if err != nil {
			return err
		}
		ds, err := resolver.Resolve(context.Background(), args[0])
		if err != nil {
			return err
		}
		if len(inspectSortBy) > 0 {
			if err := ds.SortBy(inspectSortBy, inspectDesc); err != nil {
				return fmt.Errorf("failed to sort: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		if format != formatTable {
			return writeStructured(out, format, ds.Table(inspectLimit))
		}

		fmt.Fprintf(out, "%s\n\n", ds.Summary(""))
		schema := ds.Schema()
		records := make([][]string, len(schema))
		for i, c := range schema {
			records[i] = []string{c.Name, c.Kind.String(), fmt.Sprint(c.Nullable)}
		}
		if err := writeTable(out, []string{"column", "kind", "nullable"}, records); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return writeDataset(out, ds, inspectLimit)
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "Output format: table, json, yaml")
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 10, "Rows to print, 0 for all")
	inspectCmd.Flags().StringSliceVar(&inspectSortBy, "sort-by", nil, "Comma separated columns to order rows by")
	inspectCmd.Flags().BoolVar(&inspectDesc, "desc", false, "Sort in descending order")
	RootCmd.AddCommand(inspectCmd)
}
