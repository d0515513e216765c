// Package export writes diagram data in spreadsheet-friendly formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/matsen/visitflow/internal/diagram"
	"github.com/matsen/visitflow/internal/filter"
)

// Tables that can be exported.
const (
	TableEdges  = "edges"
	TableMatrix = "matrix"
	TableGroups = "groups"
)

// ValidTables lists the accepted table names.
var ValidTables = []string{TableEdges, TableMatrix, TableGroups}

// WriteCSV writes one table of d as CSV.
func WriteCSV(w io.Writer, d *diagram.Diagram, table string) error {
	switch table {
	case TableEdges:
		return EdgesCSV(w, d.Edges())
	case TableMatrix:
		return MatrixCSV(w, d.Countries, d.Matrix)
	case TableGroups:
		return GroupsCSV(w, d.Groups)
	default:
		return fmt.Errorf("unknown table %q (valid: %v)", table, ValidTables)
	}
}

// EdgesCSV writes source,target,count rows in edge order.
func EdgesCSV(w io.Writer, edges []filter.Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target", "count"}); err != nil {
		return err
	}
	for _, e := range edges {
		if err := cw.Write([]string{e.Source, e.Target, strconv.Itoa(e.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MatrixCSV writes the square matrix with a header row and a leading column
// of country names. Rows are leader countries.
func MatrixCSV(w io.Writer, countries []string, matrix [][]int) error {
	if len(matrix) != len(countries) {
		return fmt.Errorf("matrix has %d rows for %d countries", len(matrix), len(countries))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, countries...)); err != nil {
		return err
	}
	for i, row := range matrix {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, countries[i])
		for _, v := range row {
			rec = append(rec, strconv.Itoa(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GroupsCSV writes one row per arc group with its angles in radians.
func GroupsCSV(w io.Writer, groups []diagram.Group) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "country", "region", "value", "start_angle", "end_angle"}); err != nil {
		return err
	}
	for _, g := range groups {
		rec := []string{
			strconv.Itoa(g.Index),
			g.Country,
			g.Region,
			strconv.FormatFloat(g.Value, 'g', -1, 64),
			strconv.FormatFloat(g.StartAngle, 'f', 6, 64),
			strconv.FormatFloat(g.EndAngle, 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
