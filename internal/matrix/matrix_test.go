package matrix

import (
	"reflect"
	"sort"
	"testing"

	"github.com/matsen/visitflow/internal/aggregate"
	"github.com/matsen/visitflow/internal/filter"
	"github.com/matsen/visitflow/internal/visit"
)

func TestBuild_Example(t *testing.T) {
	edges := filter.EdgeMap{
		{Source: "A", Target: "B"}: 3,
		{Source: "B", Target: "A"}: 1,
	}

	m := Build(edges)

	if want := []string{"A", "B"}; !reflect.DeepEqual(m.Countries, want) {
		t.Errorf("Countries = %v, want %v", m.Countries, want)
	}
	if want := [][]int{{0, 3}, {1, 0}}; !reflect.DeepEqual(m.Values, want) {
		t.Errorf("Values = %v, want %v", m.Values, want)
	}
	if m.RowSum(0) != 3 || m.ColSum(0) != 1 {
		t.Errorf("A: RowSum = %d, ColSum = %d, want 3, 1", m.RowSum(0), m.ColSum(0))
	}
}

func TestBuild_Empty(t *testing.T) {
	for _, edges := range []filter.EdgeMap{nil, {}} {
		m := Build(edges)
		if m.Size() != 0 || len(m.Values) != 0 || m.Total() != 0 {
			t.Errorf("Build(%v): Size = %d, Values = %v", edges, m.Size(), m.Values)
		}
		if w := m.Weights(); len(w) != 0 {
			t.Errorf("Weights() = %v, want empty", w)
		}
	}
}

func TestBuild_IndexSortedAndUnique(t *testing.T) {
	edges := filter.EdgeMap{
		{Source: "Peru", Target: "Chile"}:     2,
		{Source: "Chile", Target: "Peru"}:     1,
		{Source: "Angola", Target: "Chile"}:   4,
		{Source: "Zambia", Target: "Angola"}:  1,
		{Source: "Zambia", Target: "Zambia"}:  1,
		{Source: "Bolivia", Target: "Zambia"}: 5,
	}

	m := Build(edges)

	if !sort.StringsAreSorted(m.Countries) {
		t.Errorf("Countries not sorted: %v", m.Countries)
	}
	seen := make(map[string]bool)
	for i, c := range m.Countries {
		if seen[c] {
			t.Errorf("duplicate country %q", c)
		}
		seen[c] = true
		if got, ok := m.Index(c); !ok || got != i {
			t.Errorf("Index(%q) = %d, %v; want %d", c, got, ok, i)
		}
	}
	if m.Size() != 5 {
		t.Errorf("Size() = %d, want 5", m.Size())
	}
	for _, row := range m.Values {
		if len(row) != m.Size() {
			t.Errorf("row length %d, want %d", len(row), m.Size())
		}
	}

	z, _ := m.Index("Zambia")
	if m.Values[z][z] != 1 {
		t.Errorf("self visit cell = %d, want 1", m.Values[z][z])
	}
	if _, ok := m.Index("Narnia"); ok {
		t.Error("Index() found a country absent from every edge")
	}
}

func TestBuild_TotalMatchesAdmittedLeaves(t *testing.T) {
	var records []visit.Record
	add := func(n, year int, leader, lr, visited, vr string) {
		for i := 0; i < n; i++ {
			records = append(records, visit.Record{
				Year: visit.Year(year), LeaderCountry: leader, LeaderRegion: lr,
				VisitedCountry: visited, VisitedRegion: vr,
			})
		}
	}
	add(4, 2001, "US", "Americas", "UK", "Europe")
	add(1, 2001, "US", "Americas", "UK", "Europe-West")
	add(2, 2002, "UK", "Europe", "US", "Americas")
	add(3, 2002, "FR", "Europe", "JP", "Asia")
	add(1, 2003, "JP", "Asia", "FR", "Europe")

	agg := aggregate.Build(records)

	for _, params := range []filter.Params{
		{},
		{MinVisits: 2},
		{MinVisits: 3},
		{Year: 2002},
		{Regions: []string{"Europe", "Asia"}},
	} {
		want := 0
		p := params.Normalized()
		allowed := make(map[string]bool)
		for _, r := range p.Regions {
			allowed[r] = true
		}
		agg.Walk(func(e aggregate.Entry) {
			if p.Year != 0 && e.Year != p.Year {
				return
			}
			if len(allowed) > 0 && (!allowed[e.LeaderRegion] || !allowed[e.VisitedRegion]) {
				return
			}
			if e.Count >= p.MinVisits {
				want += e.Count
			}
		})

		m := Build(filter.Apply(agg, params).Edges)
		if got := m.Total(); got != want {
			t.Errorf("params %+v: Total() = %d, want %d", params, got, want)
		}
	}
}

func TestWeights(t *testing.T) {
	m := Build(filter.EdgeMap{{Source: "A", Target: "B"}: 2})

	want := [][]float64{{0, 2}, {0, 0}}
	if got := m.Weights(); !reflect.DeepEqual(got, want) {
		t.Errorf("Weights() = %v, want %v", got, want)
	}
}
