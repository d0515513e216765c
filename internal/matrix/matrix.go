// Package matrix builds the square country-by-country visit matrix from an
// edge list.
package matrix

import (
	"sort"

	"github.com/matsen/visitflow/internal/filter"
)

// Matrix is a directed adjacency matrix over countries.
// Values[i][j] holds the visits from Countries[i] to Countries[j].
type Matrix struct {
	Countries []string `json:"countries"`
	Values    [][]int  `json:"matrix"`

	index map[string]int
}

// Build derives the sorted country index from edges and fills the matrix.
// Countries that appear in no edge are not part of the result.
func Build(edges filter.EdgeMap) *Matrix {
	seen := make(map[string]bool)
	for p := range edges {
		seen[p.Source] = true
		seen[p.Target] = true
	}

	countries := make([]string, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	index := make(map[string]int, len(countries))
	for i, c := range countries {
		index[c] = i
	}

	values := make([][]int, len(countries))
	for i := range values {
		values[i] = make([]int, len(countries))
	}

	for p, count := range edges {
		i, okSource := index[p.Source]
		j, okTarget := index[p.Target]
		if !okSource || !okTarget {
			continue
		}
		values[i][j] = count
	}

	return &Matrix{Countries: countries, Values: values, index: index}
}

// Size returns the number of countries.
func (m *Matrix) Size() int {
	return len(m.Countries)
}

// Index returns the position of country, or false if it has no row.
func (m *Matrix) Index(country string) (int, bool) {
	i, ok := m.index[country]
	return i, ok
}

// Total returns the sum of every cell.
func (m *Matrix) Total() int {
	total := 0
	for _, row := range m.Values {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// RowSum returns the outgoing visits of country i.
func (m *Matrix) RowSum(i int) int {
	sum := 0
	for _, v := range m.Values[i] {
		sum += v
	}
	return sum
}

// ColSum returns the incoming visits of country i.
func (m *Matrix) ColSum(i int) int {
	sum := 0
	for _, row := range m.Values {
		sum += row[i]
	}
	return sum
}

// Weights returns the matrix as floats for the chord layout.
func (m *Matrix) Weights() [][]float64 {
	w := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		w[i] = make([]float64, len(row))
		for j, v := range row {
			w[i][j] = float64(v)
		}
	}
	return w
}
