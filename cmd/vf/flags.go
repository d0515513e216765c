package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/config"
	"github.com/matsen/visitflow/internal/diagram"
	"github.com/matsen/visitflow/internal/filter"
	"github.com/matsen/visitflow/internal/storage"
)

// diagramFlags are the filter and layout flags shared by chord, matrix,
// edges and viz. Unset flags fall back to the repository config.
type diagramFlags struct {
	year      int
	regions   []string
	minVisits int
	colorBy   string
	directed  bool
	padAngle  float64
}

var diagramOpts diagramFlags

func addDiagramFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&diagramOpts.year, "year", 0, "Trip year (0 for all years)")
	f.StringSliceVar(&diagramOpts.regions, "region", nil, "Region to include; repeat or comma-separate (default: all)")
	f.IntVar(&diagramOpts.minVisits, "min-visits", filter.DefaultMinVisits, "Minimum visits for an aggregated leaf to count")
	f.StringVar(&diagramOpts.colorBy, "color-by", string(diagram.DefaultColorBy), "Ribbon colour side: source or target")
	f.BoolVar(&diagramOpts.directed, "directed", false, "One ribbon per direction, groups sized by sent plus received")
	f.Float64Var(&diagramOpts.padAngle, "pad-angle", 0, "Radians between arc groups (default from config)")
}

// resolve overlays the flags the user set on top of cfg.
func (d diagramFlags) resolve(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	out := *cfg
	out.Regions = append([]string(nil), cfg.Regions...)

	changed := cmd.Flags().Changed
	if changed("year") {
		if err := config.ValidateYear(d.year); err != nil {
			return nil, err
		}
		out.Year = d.year
	}
	if changed("region") {
		out.Regions = d.regions
	}
	if changed("min-visits") {
		if err := config.ValidateMinVisits(d.minVisits); err != nil {
			return nil, err
		}
		out.MinVisits = d.minVisits
	}
	if changed("color-by") {
		if err := config.ValidateColorBy(d.colorBy); err != nil {
			return nil, err
		}
		out.ColorBy = d.colorBy
	}
	if changed("directed") {
		out.Directed = d.directed
	}
	if changed("pad-angle") {
		if err := config.ValidatePadAngle(d.padAngle); err != nil {
			return nil, err
		}
		out.PadAngle = d.padAngle
	}
	return &out, nil
}

// mustBuildDiagram loads the repository and builds the diagram for the
// current flags.
func mustBuildDiagram(cmd *cobra.Command) *diagram.Diagram {
	repoRoot := mustFindRepository()
	cfg, err := diagramOpts.resolve(cmd, mustLoadConfig(repoRoot))
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	return diagram.Build(mustLoadAggregate(db), cfg.Options(), logger)
}

// openDatabase is mustOpenDatabase for commands that need the repository only
// for queries.
func openDatabase() *storage.DB {
	return mustOpenDatabase(mustFindRepository())
}
