package main

import (
	"github.com/spf13/cobra"
)

func init() {
	addDiagramFlags(matrixCmd)
	addDiagramFlags(edgesCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(edgesCmd)
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the country-by-country visit matrix",
	Long: `Print the square count matrix behind the chord diagram.

Rows are leader countries and columns are visited countries, both in the
sorted country order. Under --human the matrix is shown as a table.`,
	Args: cobra.NoArgs,
	RunE: runMatrix,
}

var edgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "Print the filtered leader-to-visited edge list",
	Long: `Print every directed country pair that passes the current filters,
with its visit count, ordered by source then target.`,
	Args: cobra.NoArgs,
	RunE: runEdges,
}

// MatrixResponse is the response for the matrix command.
type MatrixResponse struct {
	Countries []string `json:"countries"`
	Matrix    [][]int  `json:"matrix"`
}

// EdgeResponse is one row of the edges command.
type EdgeResponse struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Count  int    `json:"count"`
}

func runMatrix(cmd *cobra.Command, args []string) error {
	d := mustBuildDiagram(cmd)

	if !humanOutput {
		return outputJSON(MatrixResponse{Countries: d.Countries, Matrix: d.Matrix})
	}

	if len(d.Countries) == 0 {
		outputHuman("Empty matrix: no country pairs pass the current filters.\n")
		return nil
	}

	headers := append([]string{"From \\ To"}, d.Countries...)
	numeric := make([]int, len(d.Countries))
	rows := make([][]string, len(d.Countries))
	for i, country := range d.Countries {
		numeric[i] = i + 1
		row := []string{country}
		for _, v := range d.Matrix[i] {
			if v == 0 {
				row = append(row, "·")
			} else {
				row = append(row, itoa(v))
			}
		}
		rows[i] = row
	}
	outputHuman("%s\n", renderTable(headers, rows, numeric...))
	return nil
}

func runEdges(cmd *cobra.Command, args []string) error {
	d := mustBuildDiagram(cmd)
	edges := d.Edges()

	resp := make([]EdgeResponse, len(edges))
	for i, e := range edges {
		resp[i] = EdgeResponse{Source: e.Source, Target: e.Target, Count: e.Count}
	}

	if !humanOutput {
		return outputJSON(resp)
	}

	if len(resp) == 0 {
		outputHuman("No country pairs pass the current filters.\n")
		return nil
	}

	rows := make([][]string, len(resp))
	total := 0
	for i, e := range resp {
		rows[i] = []string{e.Source, e.Target, itoa(e.Count)}
		total += e.Count
	}
	outputHuman("%s\n", renderTable([]string{"Leader country", "Visited country", "Visits"}, rows, 2))
	outputHuman("%s\n", mutedStyle.Render(itoa(len(resp))+" edges, "+itoa(total)+" visits"))
	return nil
}
