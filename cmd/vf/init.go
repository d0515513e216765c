package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new visitflow repository",
	Long: `Initialize a new visitflow repository in the given directory
(default: the current directory).

Creates:
  .visitflow/
  ├── visits.jsonl    # Empty file
  ├── config.json     # Default filter and layout settings
  ├── .gitignore      # Ignores cache/
  └── cache/          # Empty directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a visitflow repository")
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .visitflow directory: %v", err)
	}

	visitsFile, err := os.Create(config.VisitsPath(root))
	if err != nil {
		exitWithError(ExitError, "creating %s: %v", config.VisitsFile, err)
	}
	visitsFile.Close()

	gitignore := filepath.Join(config.VisitflowPath(root), ".gitignore")
	if err := os.WriteFile(gitignore, []byte(config.CacheDir+"/\n"), 0644); err != nil {
		exitWithError(ExitError, "creating .gitignore: %v", err)
	}

	if err := config.Default().Save(root); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.ConfigFile, err)
	}

	if humanOutput {
		outputHuman("Initialized visitflow repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}
