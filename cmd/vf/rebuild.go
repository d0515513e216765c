package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from visits.jsonl.

Use this after pulling changes from git or editing visits.jsonl by hand.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Visits int    `json:"visits"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	count, err := db.RebuildFromJSONL(config.VisitsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding visits database: %v", err)
	}

	if humanOutput {
		outputHuman("Rebuilt query database with %d visits\n", count)
	} else {
		outputJSON(RebuildResult{
			Status: "rebuilt",
			Visits: count,
		})
	}

	return nil
}
