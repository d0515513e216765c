package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/viz"
)

var (
	vizOutput string
	vizTitle  string
	vizSize   int
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizTitle, "title", viz.DefaultOptions().Title, "Page title")
	vizCmd.Flags().IntVar(&vizSize, "size", viz.DefaultSize, "Diagram width and height in pixels")
	addDiagramFlags(vizCmd)
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate chord diagram visualization",
	Long: `Generate an interactive HTML chord diagram of diplomatic visits.

Each country is an arc coloured by its region; each ribbon joins two
countries and is coloured by the region of its source or target side
(--color-by). Hovering an arc highlights its ribbons.

Examples:
  # Generate HTML to stdout
  vf viz > visits.html

  # Generate to file for one year and two regions
  vf viz --year 2010 --region Europe --region Africa -o visits.html`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	d := mustBuildDiagram(cmd)

	// Generate HTML (validates options internally)
	html, err := viz.GenerateHTML(d, viz.HTMLOptions{Title: vizTitle, Size: vizSize})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}

	if err := os.WriteFile(vizOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Visualization written to %s\n", vizOutput)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: vizOutput})
	}

	return nil
}
