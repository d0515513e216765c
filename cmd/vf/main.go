// Package main provides the vf CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/visitflow/internal/aggregate"
	"github.com/matsen/visitflow/internal/config"
	"github.com/matsen/visitflow/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging on stderr
var verbose bool

// logger is replaced by a development logger under --verbose.
var logger = zap.NewNop()

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vf",
	Short: "Diplomatic visit flows as chord diagrams",
	Long: `vf turns a table of diplomatic visits into chord-diagram layouts.

Visits are aggregated by year, leader country and visited country, filtered
by year, region and a minimum visit count, and laid out as a circular chord
diagram: one arc per country, one ribbon per connected pair.

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for agent integration.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

func init() {
	// A missing .env is fine
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages to stderr")
	rootCmd.Version = Version
}

func setupLogger(cmd *cobra.Command, args []string) error {
	if !verbose {
		return nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = l.Named("vf")
	return nil
}

// getStartingDirectory returns the directory to start searching for a repository.
// Checks VF_REPO and the global repo_path first, then the current working directory.
func getStartingDirectory() (string, int) {
	if root := config.GetRepoPath(); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite database, exits on error.
// A missing cache is rebuilt from visits.jsonl first.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	dbPath := config.DBPath(repoRoot)
	_, statErr := os.Stat(dbPath)
	fresh := os.IsNotExist(statErr)

	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db, err := storage.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}

	if fresh {
		n, err := db.RebuildFromJSONL(config.VisitsPath(repoRoot))
		if err != nil {
			db.Close()
			exitWithError(ExitDataError, "building query cache: %v", err)
		}
		logger.Debug("built missing query cache", zap.String("path", dbPath), zap.Int("visits", n))
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadAggregate reads every visit from the query cache and aggregates it.
func mustLoadAggregate(db *storage.DB) *aggregate.Aggregate {
	visits, err := db.AllVisits()
	if err != nil {
		exitWithError(ExitError, "loading visits: %v", err)
	}

	agg := aggregate.Build(visits)
	logger.Debug("aggregated visits",
		zap.Int("visits", len(visits)),
		zap.Int("leaves", agg.Len()),
		zap.Ints("years", agg.Years()),
	)
	return agg
}
