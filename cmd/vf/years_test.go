package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/visitflow/internal/diagram"
	"github.com/matsen/visitflow/internal/storage"
)

func TestPivotYearRegions(t *testing.T) {
	counts := []storage.YearRegionCount{
		{Year: 2001, Region: "Asia", Count: 2},
		{Year: 2001, Region: "Europe", Count: 1},
		{Year: 2003, Region: "", Count: 4},
		{Year: 2003, Region: "Asia", Count: 5},
	}

	headers, rows := pivotYearRegions(counts)

	wantHeaders := []string{"Year", "(none)", "Asia", "Europe", "Total"}
	if !reflect.DeepEqual(headers, wantHeaders) {
		t.Errorf("headers = %v, want %v", headers, wantHeaders)
	}
	wantRows := [][]string{
		{"2001", "0", "2", "1", "3"},
		{"2003", "4", "5", "0", "9"},
	}
	if !reflect.DeepEqual(rows, wantRows) {
		t.Errorf("rows = %v, want %v", rows, wantRows)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{3, "3"},
		{2.5, "2.50"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiagramSummary(t *testing.T) {
	d := &diagram.Diagram{
		Regions:  []string{"Asia", "Europe"},
		Groups:   make([]diagram.Group, 2),
		Ribbons:  make([]diagram.Ribbon, 1),
		ColorBy:  diagram.ColorByTarget,
		Directed: true,
	}
	got := diagramSummary(d)
	for _, want := range []string{"2 countries", "1 ribbons", "directed", "target", "Asia, Europe"} {
		if !strings.Contains(got, want) {
			t.Errorf("diagramSummary() = %q, missing %q", got, want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Country", "Visits"}, [][]string{{"France", "12"}, {"Japan", "3"}}, 1)
	for _, want := range []string{"Country", "Visits", "France", "12", "Japan"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderTable() missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n < 4 {
		t.Errorf("renderTable() has %d lines, want a bordered table", n+1)
	}
}
