package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(countryCmd)
}

var countryCmd = &cobra.Command{
	Use:   "country <name>",
	Short: "Show the trips made by one country's leaders",
	Long: `Show every dated trip made by the leaders of one country, with a
per-year count and the trips grouped by leader.

Trips without a parseable start date are left out. The name must match the
dataset exactly, e.g. "United Kingdom".`,
	Args: cobra.ExactArgs(1),
	RunE: runCountry,
}

func runCountry(cmd *cobra.Command, args []string) error {
	db := openDatabase()
	defer db.Close()

	profile, err := db.CountryProfile(args[0])
	if err != nil {
		exitWithError(ExitError, "loading %s: %v", args[0], err)
	}

	if !humanOutput {
		return outputJSON(profile)
	}

	if profile.Total == 0 {
		outputHuman("No dated trips by leaders of %s.\n", profile.Country)
		return nil
	}

	outputHuman("%s: %d trips\n\n", profile.Country, profile.Total)

	yearRows := make([][]string, len(profile.ByYear))
	for i, y := range profile.ByYear {
		yearRows[i] = []string{itoa(y.Year), itoa(y.Count)}
	}
	outputHuman("%s\n\n", renderTable([]string{"Year", "Trips"}, yearRows, 0, 1))

	for _, l := range profile.Leaders {
		name := l.Leader
		if name == "" {
			name = "(unnamed leader)"
		}
		outputHuman("%s\n", headerStyle.Render(name))
		for _, t := range l.Trips {
			line := t.StartDate + "  " + t.Visited
			if t.Days > 1 {
				line += " (" + itoa(t.Days) + " days)"
			}
			outputHuman("  %s\n", line)
			if t.Remarks != "" {
				outputHuman("    %s\n", mutedStyle.Render(t.Remarks))
			}
		}
	}
	return nil
}
