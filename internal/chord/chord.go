// Package chord computes circular chord-diagram layout from a square weight
// matrix: one arc group per row and one ribbon per connected pair.
//
// Angles are in radians, measured clockwise from 12 o'clock, starting at 0
// and covering [0, 2π).
package chord

import (
	"math"
	"sort"
)

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// DefaultPadAngle separates consecutive groups.
const DefaultPadAngle = 0.02

// Order controls how subgroups are arranged within a group.
type Order int

const (
	// Descending places the largest flows first. Equal values keep index order.
	Descending Order = iota
	// Ascending places the smallest flows first. Equal values keep index order.
	Ascending
	// IndexOrder leaves subgroups in matrix order.
	IndexOrder
)

// Layout holds the layout constants. The zero value is usable but has no
// padding and keeps subgroups in descending order.
type Layout struct {
	PadAngle      float64
	SortSubgroups Order
	// Directed sizes groups by outgoing plus incoming weight and emits one
	// ribbon per non-zero direction instead of one per connected pair.
	Directed bool
}

// New returns the default layout: 0.02 rad padding, descending subgroups,
// combined ribbons.
func New() Layout {
	return Layout{PadAngle: DefaultPadAngle, SortSubgroups: Descending}
}

// Group is the arc of one matrix row.
type Group struct {
	Index      int     `json:"index"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Value      float64 `json:"value"`
}

// MidAngle is the midpoint of the arc, used for label placement.
func (g Group) MidAngle() float64 {
	return (g.StartAngle + g.EndAngle) / 2
}

// Span is the angular width of the arc.
func (g Group) Span() float64 {
	return g.EndAngle - g.StartAngle
}

// Label is the text placement derived from a group's midpoint.
type Label struct {
	Angle float64 `json:"angle"`
	// Rotate is the group rotation in degrees for a label drawn along the
	// positive x axis.
	Rotate float64 `json:"rotate"`
	// Flipped labels sit on the left half of the circle and are turned a
	// further 180 degrees so they read left to right.
	Flipped bool   `json:"flipped"`
	Anchor  string `json:"anchor"`
}

// Label computes the label placement for g.
func (g Group) Label() Label {
	angle := g.MidAngle()
	l := Label{
		Angle:  angle,
		Rotate: angle*180/math.Pi - 90,
		Anchor: "start",
	}
	if angle > math.Pi {
		l.Flipped = true
		l.Anchor = "end"
	}
	return l
}

// Endpoint is one end of a ribbon: a sub-span of a group's arc.
type Endpoint struct {
	Index      int     `json:"index"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Value      float64 `json:"value"`
}

// Span is the angular width of the endpoint.
func (e Endpoint) Span() float64 {
	return e.EndAngle - e.StartAngle
}

// Ribbon connects two group sub-spans.
//
// In combined mode Source is the larger direction of the pair and Target the
// reverse flow, which may be empty. In directed mode both ends carry the same
// single-direction value.
type Ribbon struct {
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`
}

// Chords is the complete layout.
type Chords struct {
	Groups  []Group  `json:"groups"`
	Ribbons []Ribbon `json:"ribbons"`
}

// Compute lays out the square matrix m. Rows shorter than len(m) are treated
// as zero-padded. An empty matrix yields an empty layout.
func (l Layout) Compute(m [][]float64) Chords {
	n := len(m)
	if n == 0 {
		return Chords{Groups: []Group{}, Ribbons: []Ribbon{}}
	}

	at := func(i, j int) float64 {
		if j < len(m[i]) {
			return m[i][j]
		}
		return 0
	}

	groupSums := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		x := 0.0
		for j := 0; j < n; j++ {
			x += at(i, j)
			if l.Directed {
				x += at(j, i)
			}
		}
		groupSums[i] = x
		total += x
	}

	k := 0.0
	if total > 0 {
		k = math.Max(0, Tau-l.PadAngle*float64(n)) / total
	}
	dx := l.PadAngle
	if k == 0 {
		dx = Tau / float64(n)
	}

	if l.Directed {
		return l.computeDirected(n, at, groupSums, k, dx)
	}
	return l.computeCombined(n, at, groupSums, k, dx)
}

// slot holds the endpoint(s) of the ribbon for one matrix cell.
type slot struct {
	source, target *Endpoint
}

func (l Layout) computeCombined(n int, at func(i, j int) float64, groupSums []float64, k, dx float64) Chords {
	groups := make([]Group, n)
	slots := make([]slot, n*n)

	x := 0.0
	for i := 0; i < n; i++ {
		x0 := x
		var subgroups []int
		for j := 0; j < n; j++ {
			if at(i, j) != 0 || at(j, i) != 0 {
				subgroups = append(subgroups, j)
			}
		}
		l.sortSubgroups(subgroups, func(j int) float64 { return at(i, j) })

		for _, j := range subgroups {
			v := at(i, j)
			e := &Endpoint{Index: i, StartAngle: x, Value: v}
			x += v * k
			e.EndAngle = x

			var s *slot
			if i < j {
				s = &slots[i*n+j]
				s.source = e
			} else {
				s = &slots[j*n+i]
				s.target = e
				if i == j {
					s.source = e
				}
			}
			if s.source != nil && s.target != nil && s.source.Value < s.target.Value {
				s.source, s.target = s.target, s.source
			}
		}

		groups[i] = Group{Index: i, StartAngle: x0, EndAngle: x, Value: groupSums[i]}
		x += dx
	}

	ribbons := []Ribbon{}
	for _, s := range slots {
		if s.source == nil && s.target == nil {
			continue
		}
		ribbons = append(ribbons, Ribbon{Source: *s.source, Target: *s.target})
	}

	return Chords{Groups: groups, Ribbons: ribbons}
}

func (l Layout) computeDirected(n int, at func(i, j int) float64, groupSums []float64, k, dx float64) Chords {
	groups := make([]Group, n)
	slots := make([]slot, n*n)

	x := 0.0
	for i := 0; i < n; i++ {
		x0 := x

		// Negative entries -(j+1) stand for the incoming flow from j,
		// non-negative entries j for the outgoing flow to j.
		var subgroups []int
		for j := -n; j < 0; j++ {
			if at(-j-1, i) != 0 {
				subgroups = append(subgroups, j)
			}
		}
		for j := 0; j < n; j++ {
			if at(i, j) != 0 {
				subgroups = append(subgroups, j)
			}
		}
		l.sortSubgroups(subgroups, func(j int) float64 {
			if j < 0 {
				return -at(-j-1, i)
			}
			return at(i, j)
		})

		for _, j := range subgroups {
			if j < 0 {
				src := -j - 1
				v := at(src, i)
				e := &Endpoint{Index: i, StartAngle: x, Value: v}
				x += v * k
				e.EndAngle = x
				slots[src*n+i].target = e
			} else {
				v := at(i, j)
				e := &Endpoint{Index: i, StartAngle: x, Value: v}
				x += v * k
				e.EndAngle = x
				slots[i*n+j].source = e
			}
		}

		groups[i] = Group{Index: i, StartAngle: x0, EndAngle: x, Value: groupSums[i]}
		x += dx
	}

	ribbons := []Ribbon{}
	for _, s := range slots {
		if s.source == nil || s.target == nil {
			continue
		}
		ribbons = append(ribbons, Ribbon{Source: *s.source, Target: *s.target})
	}

	return Chords{Groups: groups, Ribbons: ribbons}
}

// sortSubgroups orders idx in place by value. The sort is stable, so equal
// values keep their index order.
func (l Layout) sortSubgroups(idx []int, value func(int) float64) {
	switch l.SortSubgroups {
	case Descending:
		sort.SliceStable(idx, func(a, b int) bool { return value(idx[a]) > value(idx[b]) })
	case Ascending:
		sort.SliceStable(idx, func(a, b int) bool { return value(idx[a]) < value(idx[b]) })
	}
}
