package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/config"
	"github.com/matsen/visitflow/internal/storage"
)

var (
	topYear  int
	topLimit int
)

func init() {
	topCmd.Flags().IntVar(&topYear, "year", 0, "Trip year (0 for all years)")
	topCmd.Flags().IntVar(&topLimit, "limit", DefaultTopLimit, "Maximum rows (0 for all)")
	rootCmd.AddCommand(topCmd)
}

var topCmd = &cobra.Command{
	Use:   "top sent|received",
	Short: "Rank countries by visits sent or received",
	Long: `Rank countries by visit count.

  sent      leader countries, by trips their leaders made
  received  visited countries, by trips they hosted

Ties are ordered by country name.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{storage.SideSent, storage.SideReceived},
	RunE:      runTop,
}

// TopResponse is the response for the top command.
type TopResponse struct {
	Side      string                 `json:"side"`
	Year      int                    `json:"year,omitempty"`
	Countries []storage.CountryCount `json:"countries"`
}

func runTop(cmd *cobra.Command, args []string) error {
	side := args[0]
	if side != storage.SideSent && side != storage.SideReceived {
		exitWithError(ExitError, "invalid side %q: must be %s or %s", side, storage.SideSent, storage.SideReceived)
	}
	if err := config.ValidateYear(topYear); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if topLimit < 0 {
		exitWithError(ExitError, "invalid limit: %d", topLimit)
	}

	db := openDatabase()
	defer db.Close()

	var counts []storage.CountryCount
	var err error
	if side == storage.SideSent {
		counts, err = db.TopSent(topYear, topLimit)
	} else {
		counts, err = db.TopReceived(topYear, topLimit)
	}
	if err != nil {
		exitWithError(ExitError, "ranking countries: %v", err)
	}

	if !humanOutput {
		return outputJSON(TopResponse{Side: side, Year: topYear, Countries: counts})
	}

	if len(counts) == 0 {
		outputHuman("No visits for year %s.\n", orAll(itoa(topYear)))
		return nil
	}

	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{itoa(i + 1), c.Country, itoa(c.Count)}
	}
	outputHuman("%s\n", renderTable([]string{"#", "Country", "Visits " + side}, rows, 0, 2))
	outputHuman("%s\n", mutedStyle.Render(fmt.Sprintf("year: %s", orAll(itoa(topYear)))))
	return nil
}
