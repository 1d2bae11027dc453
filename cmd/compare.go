package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"data-reconciler/core/config"
	"data-reconciler/core/dataset"
	"data-reconciler/core/logger"
	"data-reconciler/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareFlags holds the flags of the compare command.
type compareFlags struct {
	keysA, keysB []string
	keepA, keepB []string
	suffixA      string
	suffixB      string
	validate     string
	normalize    bool
	sort         bool
	view         string
	limit        int
	output       string
	export       string
}

var compareOpts compareFlags

// compareCmd reconciles two datasets.
var compareCmd = &cobra.Command{
	Use:   "compare <dataset-a> <dataset-b>",
	Short: "Compare two datasets on key columns",
	Long: `Performs a full outer join of two datasets and reports which rows match,
which exist only in A and which exist only in B.

Datasets are local files (csv, tsv, txt, xlsx, xls, xlsm, xlsb, ods, json, html,
parquet, feather, pkl, dta, sas7bdat, xpt), objects (s3://bucket/key or
object://key in the configured bucket) or database tables (table://name).

Examples:
  # Compare two exports on id
  compare ledger-a.csv ledger-b.xlsx --keys-a id --keys-b id

  # Different key names, case-insensitive matching, only unmatched rows of A
  compare a.json b.parquet --keys-a Customer --keys-b customer_id --normalize --view left_only

  # Require unique keys on both sides and write every view as CSV
  compare a.csv table://accounts --keys-a id --keys-b id --validate 1:1 --export ./out`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringSliceVar(&compareOpts.keysA, "keys-a", nil, "Key columns of dataset A (comma separated)")
	f.StringSliceVar(&compareOpts.keysB, "keys-b", nil, "Key columns of dataset B (comma separated)")
	f.StringSliceVar(&compareOpts.keepA, "keep-a", nil, "Keep only these columns of A besides the keys")
	f.StringSliceVar(&compareOpts.keepB, "keep-b", nil, "Keep only these columns of B besides the keys")
	f.StringVar(&compareOpts.suffixA, "suffix-a", "", "Suffix for A columns present on both sides (default from config)")
	f.StringVar(&compareOpts.suffixB, "suffix-b", "", "Suffix for B columns present on both sides (default from config)")
	f.StringVar(&compareOpts.validate, "validate", "", "Expected cardinality: 1:1, 1:m, m:1 or m:m")
	f.BoolVar(&compareOpts.normalize, "normalize", false, "Trim and lowercase text keys before matching")
	f.BoolVar(&compareOpts.sort, "sort", false, "Order rows by key")
	f.StringVar(&compareOpts.view, "view", reconcile.ViewMerged, "View to print: merged, matches, left_only, right_only")
	f.IntVar(&compareOpts.limit, "limit", 20, "Rows to print, 0 for all")
	f.StringVarP(&compareOpts.output, "output", "o", "", "Output format: table, json, yaml")
	f.StringVar(&compareOpts.export, "export", "", "Directory receiving every view as CSV")
	_ = compareCmd.MarkFlagRequired("keys-a")
	_ = compareCmd.MarkFlagRequired("keys-b")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(compareOpts.output)
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

	opts := compareOpts.options(cmd, cfg.Compare)
	resolver, _, err := newResolver(cfg, l, args[0], args[1])
	if err != nil {
		return err
	}

	a, b, err := resolver.ResolvePair(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	l.Debug("Datasets loaded", zap.String("a", a.Summary("")), zap.String("b", b.Summary("")))

	res, err := reconcile.Compare(a, b, compareOpts.keysA, compareOpts.keysB, opts)
	if err != nil {
		return err
	}

	view, err := res.View(compareOpts.view)
	if err != nil {
		return err
	}

	if compareOpts.export != "" {
		files, err := exportViews(res, compareOpts.export)
		if err != nil {
			return err
		}
		l.Info("Views exported", zap.Strings("files", files))
	}

	out := cmd.OutOrStdout()
	if format != formatTable {
		return writeStructured(out, format, compareReport{
			A:       a.Summary(""),
			B:       b.Summary(""),
			Summary: res.Summary,
			View:    view.Table(compareOpts.limit),
		})
	}
	return printCompare(out, a, b, res, view, compareOpts.limit)
}

// options merges the flags that were set over the configured defaults.
func (f compareFlags) options(cmd *cobra.Command, defaults reconcile.Config) reconcile.Options {
	opts := defaults.Options()
	if f.suffixA != "" {
		opts.Suffixes[0] = f.suffixA
	}
	if f.suffixB != "" {
		opts.Suffixes[1] = f.suffixB
	}
	if f.validate != "" {
		opts.Validate = f.validate
	}
	if cmd.Flags().Changed("normalize") {
		opts.Normalize = f.normalize
	}
	if cmd.Flags().Changed("keep-a") {
		opts.KeepA = nonNil(f.keepA)
	}
	if cmd.Flags().Changed("keep-b") {
		opts.KeepB = nonNil(f.keepB)
	}
	opts.SortKeys = f.sort
	return opts
}

// nonNil keeps an explicitly empty allow-list distinct from no allow-list.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// compareReport is the JSON and YAML form of a comparison.
type compareReport struct {
	A       string            `json:"a" yaml:"a"`
	B       string            `json:"b" yaml:"b"`
	Summary reconcile.Summary `json:"summary" yaml:"summary"`
	View    dataset.Table     `json:"view" yaml:"view"`
}

func printCompare(w io.Writer, a, b *dataset.Dataset, res *reconcile.Result, view *dataset.Dataset, limit int) error {
	fmt.Fprintf(w, "A: %s\nB: %s\n\n", a.Summary(""), b.Summary(""))
	s := res.Summary
	if err := writeTable(w,
		[]string{"merged", "matches", "left_only", "right_only"},
		[][]string{{fmt.Sprint(s.Merged), fmt.Sprint(s.Matches), fmt.Sprint(s.LeftOnly), fmt.Sprint(s.RightOnly)}},
	); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", strings.ToUpper(view.Name))
	return writeDataset(w, view, limit)
}

// exportViews writes every view to dir/<view>.csv.
func exportViews(res *reconcile.Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	files := make([]string, 0, 4)
	for _, name := range reconcile.Views() {
		ds, _ := res.View(name)
		p := filepath.Join(dir, name+".csv")
		if err := writeCSVFile(p, ds); err != nil {
			return nil, err
		}
		files = append(files, p)
	}
	return files, nil
}

func writeCSVFile(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := ds.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
