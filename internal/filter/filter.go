// Package filter walks an aggregate under a year, region and threshold
// selection and produces a directed edge list between countries.
package filter

import (
	"sort"

	"github.com/matsen/visitflow/internal/aggregate"
)

// DefaultMinVisits is the inclusive per-leaf threshold used when none is set.
const DefaultMinVisits = 1

// Params selects which parts of the aggregate become edges.
// Zero values mean "no restriction".
type Params struct {
	Year      int      `json:"year,omitempty"`       // 0 matches every year
	Regions   []string `json:"regions,omitempty"`    // empty matches every region
	MinVisits int      `json:"min_visits,omitempty"` // values below 1 become DefaultMinVisits
}

// Normalized returns p with MinVisits defaulted.
func (p Params) Normalized() Params {
	if p.MinVisits < DefaultMinVisits {
		p.MinVisits = DefaultMinVisits
	}
	return p
}

// Pair is an ordered (leader country, visited country) pair.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeMap maps an ordered country pair to its summed visit count.
type EdgeMap map[Pair]int

// Total returns the sum of all edge counts.
func (m EdgeMap) Total() int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}

// Edge is one entry of an EdgeMap.
type Edge struct {
	Pair
	Count int `json:"count"`
}

// Sorted returns the edges ordered by source, then target.
func (m EdgeMap) Sorted() []Edge {
	edges := make([]Edge, 0, len(m))
	for p, c := range m {
		edges = append(edges, Edge{Pair: p, Count: c})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// Result is the output of Apply.
type Result struct {
	Edges EdgeMap
	// CountryToRegion holds the region of every admitted country. A country
	// seen under several regions keeps whichever was walked last.
	CountryToRegion map[string]string
}

// Apply walks agg in nested order and accumulates edges.
//
// The minimum-visit threshold is checked against each leaf count on its own,
// not against the running edge total: an edge assembled from several leaves
// that are each below the threshold is excluded even if their sum would pass.
func Apply(agg *aggregate.Aggregate, p Params) Result {
	p = p.Normalized()
	allowed := regionSet(p.Regions)

	res := Result{
		Edges:           make(EdgeMap),
		CountryToRegion: make(map[string]string),
	}

	var lastLeader aggregate.Key
	inLeader := false

	agg.Walk(func(e aggregate.Entry) {
		if p.Year != 0 && e.Year != p.Year {
			return
		}
		if !allowed.contains(e.LeaderRegion) {
			return
		}

		// Leader region is recorded once per (year, leader, region) node,
		// before any of its visited leaves.
		node := aggregate.Key{Year: e.Year, LeaderCountry: e.LeaderCountry, LeaderRegion: e.LeaderRegion}
		if !inLeader || node != lastLeader {
			res.CountryToRegion[e.LeaderCountry] = e.LeaderRegion
			lastLeader = node
			inLeader = true
		}

		if !allowed.contains(e.VisitedRegion) {
			return
		}
		res.CountryToRegion[e.VisitedCountry] = e.VisitedRegion

		if e.Count >= p.MinVisits {
			res.Edges[Pair{Source: e.LeaderCountry, Target: e.VisitedCountry}] += e.Count
		}
	})

	return res
}

// regions is an allow-list; nil admits everything.
type regions map[string]bool

func regionSet(list []string) regions {
	if len(list) == 0 {
		return nil
	}
	set := make(regions, len(list))
	for _, r := range list {
		set[r] = true
	}
	return set
}

func (r regions) contains(region string) bool {
	return r == nil || r[region]
}
