package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/visitflow/internal/config"
	"github.com/matsen/visitflow/internal/storage"
	"github.com/matsen/visitflow/internal/visit"
)

var (
	importFormat  string
	importReplace bool
	importDryRun  bool
)

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format: json or jsonl (default: detect)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace existing visits instead of appending")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and count without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import visits from a JSON or JSONL export",
	Long: `Import visits from a JSON array or a JSONL file.

Records use the columns of the upstream visits dataset:
  TripYear, LeaderCountryOrIGO, LeaderRegion, CountryVisited, RegionVisited
and optionally LeaderFullName, TripStartDate, TripEndDate, Remarks.

Records missing a leader country, visited country or positive year are
skipped and reported. The query cache is rebuilt after a successful import.

Usage:
  vf import visits.json
  vf import --format jsonl more.jsonl
  vf import --replace visits.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Mode     string   `json:"mode"` // append or replace
	DryRun   bool     `json:"dry_run,omitempty"`
	Errors   []string `json:"errors"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	records, err := storage.ReadFile(args[0], importFormat)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	valid, errs := validateRecords(records)
	if len(valid) == 0 && len(errs) > 0 {
		exitWithError(ExitDataError, "no valid visits in %s: %s", args[0], errs[0])
	}

	visitsPath := config.VisitsPath(repoRoot)
	existing, err := storage.ReadAll(visitsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading existing visits: %v", err)
	}

	result := ImportResult{
		Imported: len(valid),
		Skipped:  len(errs),
		Mode:     "append",
		DryRun:   importDryRun,
		Errors:   errs,
	}
	if importReplace {
		result.Mode = "replace"
		result.Total = len(valid)
	} else {
		result.Total = len(existing) + len(valid)
	}

	if !importDryRun {
		if importReplace {
			err = storage.WriteAll(visitsPath, valid)
		} else {
			err = storage.Append(visitsPath, valid)
		}
		if err != nil {
			exitWithError(ExitError, "writing visits: %v", err)
		}

		db := mustOpenDatabase(repoRoot)
		n, err := db.RebuildFromJSONL(visitsPath)
		db.Close()
		if err != nil {
			exitWithError(ExitDataError, "rebuilding query cache: %v", err)
		}
		logger.Debug("imported visits",
			zap.String("file", args[0]),
			zap.Int("imported", len(valid)),
			zap.Int("skipped", len(errs)),
			zap.Int("cached", n),
		)
	}

	if humanOutput {
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		outputHuman("%s %d visits (%s), skipped %d; repository holds %d\n",
			verb, result.Imported, result.Mode, result.Skipped, result.Total)
		for _, e := range errs {
			outputHuman("  %s\n", mutedStyle.Render(e))
		}
	} else {
		outputJSON(result)
	}
	return nil
}

// validateRecords splits records into valid ones and one message per invalid
// record, numbered from 1 in input order.
func validateRecords(records []visit.Record) ([]visit.Record, []string) {
	valid := make([]visit.Record, 0, len(records))
	errs := []string{}
	for i := range records {
		if err := records[i].Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}
		valid = append(valid, records[i])
	}
	return valid, errs
}
