package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/storage"
)

func init() {
	rootCmd.AddCommand(yearsCmd)
	rootCmd.AddCommand(regionsCmd)
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Count visits per year by visited region",
	Long: `Count visits per year, split by the region of the visited country.

Under --human each year is one row with one column per region.`,
	Args: cobra.NoArgs,
	RunE: runYears,
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the regions present in the data",
	Args:  cobra.NoArgs,
	RunE:  runRegions,
}

func runYears(cmd *cobra.Command, args []string) error {
	db := openDatabase()
	defer db.Close()

	counts, err := db.YearRegionCounts()
	if err != nil {
		exitWithError(ExitError, "counting visits: %v", err)
	}

	if !humanOutput {
		return outputJSON(counts)
	}

	if len(counts) == 0 {
		outputHuman("No visits.\n")
		return nil
	}

	headers, rows := pivotYearRegions(counts)
	numeric := make([]int, len(headers)-1)
	for i := range numeric {
		numeric[i] = i + 1
	}
	outputHuman("%s\n", renderTable(headers, rows, numeric...))
	return nil
}

// pivotYearRegions lays year/region counts out as one row per year with a
// column per region and a trailing total.
func pivotYearRegions(counts []storage.YearRegionCount) ([]string, [][]string) {
	regionSet := make(map[string]bool)
	byYear := make(map[int]map[string]int)
	var years []int
	for _, c := range counts {
		regionSet[c.Region] = true
		if byYear[c.Year] == nil {
			byYear[c.Year] = make(map[string]int)
			years = append(years, c.Year)
		}
		byYear[c.Year][c.Region] += c.Count
	}
	sort.Ints(years)

	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	headers := []string{"Year"}
	for _, r := range regions {
		if r == "" {
			r = "(none)"
		}
		headers = append(headers, r)
	}
	headers = append(headers, "Total")

	rows := make([][]string, len(years))
	for i, y := range years {
		row := []string{itoa(y)}
		total := 0
		for _, r := range regions {
			n := byYear[y][r]
			total += n
			row = append(row, itoa(n))
		}
		rows[i] = append(row, itoa(total))
	}
	return headers, rows
}

func runRegions(cmd *cobra.Command, args []string) error {
	db := openDatabase()
	defer db.Close()

	regions, err := db.Regions()
	if err != nil {
		exitWithError(ExitError, "listing regions: %v", err)
	}

	if !humanOutput {
		return outputJSON(regions)
	}
	for _, r := range regions {
		outputHuman("%s\n", r)
	}
	return nil
}
