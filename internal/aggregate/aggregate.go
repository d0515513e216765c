// Package aggregate folds visit records into a five-level frequency table
// keyed by year, leader country, leader region, visited country and visited
// region.
package aggregate

import (
	"sort"

	"github.com/matsen/visitflow/internal/visit"
)

// Key is the full path to a leaf count.
type Key struct {
	Year           int
	LeaderCountry  string
	LeaderRegion   string
	VisitedCountry string
	VisitedRegion  string
}

// Entry is one leaf of the aggregate.
type Entry struct {
	Key
	Count int
}

// Aggregate is a read-only frequency table. It is safe for concurrent use
// once built.
//
// Entries are stored flat but in nested walk order: grouped by year in
// first-seen order, then by leader country within the year in first-seen
// order, and so on down to the visited region. Walking a five-level mapping
// whose levels preserve insertion order would produce the same sequence.
type Aggregate struct {
	entries []Entry
	index   map[Key]int
	total   int
}

// Build counts records along their full key path. No record is dropped.
func Build(records []visit.Record) *Aggregate {
	counts := make(map[Key]int)
	var order []Key

	for _, r := range records {
		k := keyOf(r)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	entries := make([]Entry, len(order))
	for i, k := range order {
		entries[i] = Entry{Key: k, Count: counts[k]}
	}
	sortNested(entries)

	index := make(map[Key]int, len(entries))
	total := 0
	for i, e := range entries {
		index[e.Key] = i
		total += e.Count
	}

	return &Aggregate{entries: entries, index: index, total: total}
}

func keyOf(r visit.Record) Key {
	return Key{
		Year:           int(r.Year),
		LeaderCountry:  r.LeaderCountry,
		LeaderRegion:   r.LeaderRegion,
		VisitedCountry: r.VisitedCountry,
		VisitedRegion:  r.VisitedRegion,
	}
}

// prefix identifies a node at some depth of the nested walk.
type prefix struct {
	depth int
	key   Key
}

func prefixAt(k Key, depth int) prefix {
	p := Key{Year: k.Year}
	if depth >= 2 {
		p.LeaderCountry = k.LeaderCountry
	}
	if depth >= 3 {
		p.LeaderRegion = k.LeaderRegion
	}
	if depth >= 4 {
		p.VisitedCountry = k.VisitedCountry
	}
	return prefix{depth: depth, key: p}
}

// sortNested reorders entries (given in first-insertion order) into nested
// walk order. A node's rank is the position of the first entry under it, so
// comparing rank tuples level by level reproduces the nested iteration.
func sortNested(entries []Entry) {
	firstSeen := make(map[prefix]int)
	for i, e := range entries {
		for depth := 1; depth <= 4; depth++ {
			p := prefixAt(e.Key, depth)
			if _, ok := firstSeen[p]; !ok {
				firstSeen[p] = i
			}
		}
	}

	ranks := make([][5]int, len(entries))
	for i, e := range entries {
		for depth := 1; depth <= 4; depth++ {
			ranks[i][depth-1] = firstSeen[prefixAt(e.Key, depth)]
		}
		ranks[i][4] = i
	}

	perm := make([]int, len(entries))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool {
		ra, rb := ranks[perm[a]], ranks[perm[b]]
		for level := 0; level < 5; level++ {
			if ra[level] != rb[level] {
				return ra[level] < rb[level]
			}
		}
		return false
	})

	sorted := make([]Entry, len(entries))
	for i, p := range perm {
		sorted[i] = entries[p]
	}
	copy(entries, sorted)
}

// Walk calls fn for every leaf in nested walk order.
func (a *Aggregate) Walk(fn func(Entry)) {
	for _, e := range a.entries {
		fn(e)
	}
}

// Entries returns a copy of all leaves in nested walk order.
func (a *Aggregate) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Count returns the leaf count for k, or 0 if no record matched it.
func (a *Aggregate) Count(k Key) int {
	i, ok := a.index[k]
	if !ok {
		return 0
	}
	return a.entries[i].Count
}

// Len returns the number of distinct leaves.
func (a *Aggregate) Len() int {
	return len(a.entries)
}

// Total returns the number of records folded into the aggregate.
func (a *Aggregate) Total() int {
	return a.total
}

// Years returns the distinct years in ascending order.
func (a *Aggregate) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, e := range a.entries {
		if !seen[e.Year] {
			seen[e.Year] = true
			years = append(years, e.Year)
		}
	}
	sort.Ints(years)
	return years
}
