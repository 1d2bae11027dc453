package cmd

import (
	"strings"

	"data-reconciler/core/ingest"

	"github.com/spf13/cobra"
)

var formatsOutput string

// formatsCmd lists the supported file extensions.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported dataset file formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(formatsOutput)
		if err != nil {
			return err
		}
		families := ingest.Families()
		if format != formatTable {
			return writeStructured(cmd.OutOrStdout(), format, families)
		}
		records := make([][]string, len(families))
		for i, f := range families {
			records[i] = []string{f.Name, strings.Join(f.Extensions, " ")}
		}
		return writeTable(cmd.OutOrStdout(), []string{"family", "extensions"}, records)
	},
}

func init() {
	formatsCmd.Flags().StringVarP(&formatsOutput, "output", "o", "", "Output format: table, json, yaml")
	RootCmd.AddCommand(formatsCmd)
}
