package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"data-reconciler/core/dataset"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// resolveFormat validates --output. Empty selects a table on terminals and JSON
// when stdout is piped.
func resolveFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "":
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be one of table, json, yaml", s)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	if format == formatYAML {
		out, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable renders the header and records as a text table.
func writeTable(w io.Writer, header []string, records [][]string) error {
	table := tablewriter.NewTable(w)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	for _, rec := range records {
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}

// writeDataset renders the first limit rows of ds as a table.
func writeDataset(w io.Writer, ds *dataset.Dataset, limit int) error {
	preview := ds.Head(limit)
	if err := writeTable(w, preview.Header(), preview.Records()); err != nil {
		return err
	}
	if preview.NumRows() < ds.NumRows() {
		fmt.Fprintf(w, "... %d of %d rows shown\n", preview.NumRows(), ds.NumRows())
	}
	return nil
}
