// Package diagram runs the filter, matrix and chord stages over an aggregate
// and assembles the renderer-facing chord diagram.
package diagram

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/matsen/visitflow/internal/aggregate"
	"github.com/matsen/visitflow/internal/chord"
	"github.com/matsen/visitflow/internal/filter"
	"github.com/matsen/visitflow/internal/matrix"
)

// Side selects which end of a ribbon supplies its fill region.
type Side string

const (
	ColorBySource Side = "source"
	ColorByTarget Side = "target"
)

// DefaultColorBy colours ribbons by the visited side.
const DefaultColorBy = ColorByTarget

// ValidSides lists the accepted Side values.
var ValidSides = []Side{ColorBySource, ColorByTarget}

// ParseSide converts a flag or config value to a Side. Empty selects the default.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case "":
		return DefaultColorBy, nil
	case ColorBySource, ColorByTarget:
		return Side(s), nil
	default:
		return "", fmt.Errorf("invalid color-by %q: must be source or target", s)
	}
}

// Options configures one diagram build.
type Options struct {
	Filter  filter.Params
	ColorBy Side
	Layout  chord.Layout
}

// DefaultOptions returns unfiltered options with the default layout.
func DefaultOptions() Options {
	return Options{
		Filter:  filter.Params{MinVisits: filter.DefaultMinVisits},
		ColorBy: DefaultColorBy,
		Layout:  chord.New(),
	}
}

// Group is a country arc with its label placement.
type Group struct {
	chord.Group
	Country string      `json:"country"`
	Region  string      `json:"region"`
	Label   chord.Label `json:"label"`
}

// Endpoint is a ribbon end with its country resolved.
type Endpoint struct {
	chord.Endpoint
	Country string `json:"country"`
}

// Ribbon is a chord ribbon with its fill region resolved.
type Ribbon struct {
	Source      Endpoint `json:"source"`
	Target      Endpoint `json:"target"`
	ColorRegion string   `json:"colorRegion"`
}

// Diagram is everything a renderer needs. Angles and ordering are final and
// must be drawn as given.
type Diagram struct {
	Countries       []string          `json:"countries"`
	CountryToRegion map[string]string `json:"countryToRegion"`
	Regions         []string          `json:"regions"`
	Matrix          [][]int           `json:"matrix"`
	Groups          []Group           `json:"groups"`
	Ribbons         []Ribbon          `json:"ribbons"`
	ColorBy         Side              `json:"colorBy"`
	Directed        bool              `json:"directed"`

	edges filter.EdgeMap
}

// IsEmpty reports whether the diagram has nothing to draw.
func (d *Diagram) IsEmpty() bool {
	return len(d.Groups) == 0
}

// Edges returns the filtered edge list ordered by source, then target.
func (d *Diagram) Edges() []filter.Edge {
	return d.edges.Sorted()
}

// Build filters agg, builds the matrix and lays out the chords. The result is
// recomputed from scratch on every call; agg is only read.
func Build(agg *aggregate.Aggregate, opts Options, logger *zap.Logger) *Diagram {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ColorBy == "" {
		opts.ColorBy = DefaultColorBy
	}

	res := filter.Apply(agg, opts.Filter)
	logger.Debug("filtered aggregate",
		zap.Int("year", opts.Filter.Year),
		zap.Strings("regions", opts.Filter.Regions),
		zap.Int("min_visits", opts.Filter.Normalized().MinVisits),
		zap.Int("leaves", agg.Len()),
		zap.Int("edges", len(res.Edges)),
		zap.Int("visits", res.Edges.Total()),
	)

	m := matrix.Build(res.Edges)
	chords := opts.Layout.Compute(m.Weights())
	logger.Debug("computed chord layout",
		zap.Int("countries", m.Size()),
		zap.Int("groups", len(chords.Groups)),
		zap.Int("ribbons", len(chords.Ribbons)),
		zap.Bool("directed", opts.Layout.Directed),
		zap.Float64("pad_angle", opts.Layout.PadAngle),
	)

	regionOf := func(i int) string {
		return res.CountryToRegion[m.Countries[i]]
	}

	groups := make([]Group, len(chords.Groups))
	for i, g := range chords.Groups {
		groups[i] = Group{
			Group:   g,
			Country: m.Countries[g.Index],
			Region:  regionOf(g.Index),
			Label:   g.Label(),
		}
	}

	ribbons := make([]Ribbon, len(chords.Ribbons))
	for i, r := range chords.Ribbons {
		colorIndex := r.Target.Index
		if opts.ColorBy == ColorBySource {
			colorIndex = r.Source.Index
		}
		ribbons[i] = Ribbon{
			Source:      Endpoint{Endpoint: r.Source, Country: m.Countries[r.Source.Index]},
			Target:      Endpoint{Endpoint: r.Target, Country: m.Countries[r.Target.Index]},
			ColorRegion: regionOf(colorIndex),
		}
	}

	return &Diagram{
		Countries:       m.Countries,
		CountryToRegion: res.CountryToRegion,
		Regions:         distinctRegions(m.Countries, res.CountryToRegion),
		Matrix:          m.Values,
		Groups:          groups,
		Ribbons:         ribbons,
		ColorBy:         opts.ColorBy,
		Directed:        opts.Layout.Directed,
		edges:           res.Edges,
	}
}

func distinctRegions(countries []string, regions map[string]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range countries {
		r, ok := regions[c]
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
