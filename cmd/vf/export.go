package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/export"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	addDiagramFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export edges|matrix|groups",
	Short: "Export diagram tables as CSV",
	Long: `Export one table of the filtered diagram as CSV.

  edges   source,target,count per directed country pair
  matrix  the square count matrix with country headers
  groups  one row per arc with its angles in radians

Examples:
  vf export matrix --year 2008 > matrix.csv
  vf export edges --region Africa -o africa.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: export.ValidTables,
	RunE:      runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	d := mustBuildDiagram(cmd)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, d, args[0]); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if exportOutput == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(exportOutput, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Exported %s to %s\n", args[0], exportOutput)
	} else {
		outputJSON(StatusResponse{Status: "exported", Path: exportOutput})
	}
	return nil
}
