package storage

import (
	"fmt"
	"sort"
)

// Ranking sides for TopCountries.
const (
	SideSent     = "sent"     // leader countries, by trips made
	SideReceived = "received" // visited countries, by trips hosted
)

// CountryCount is one row of a country ranking.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// YearRegionCount is the number of visits into one region in one year.
type YearRegionCount struct {
	Year   int    `json:"year"`
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// TopCountries ranks leader countries (SideSent) or visited countries
// (SideReceived) by visit count, highest first, ties broken by name.
// year 0 ranks across every year; limit 0 returns all rows.
func (d *DB) TopCountries(side string, year, limit int) ([]CountryCount, error) {
	var column string
	switch side {
	case SideSent:
		column = "leader_country"
	case SideReceived:
		column = "visited_country"
	default:
		return nil, fmt.Errorf("invalid ranking side %q: must be %s or %s", side, SideSent, SideReceived)
	}

	query := `SELECT ` + column + `, COUNT(*) AS n FROM visits`
	var args []interface{}
	if year != 0 {
		query += ` WHERE trip_year = ?`
		args = append(args, year)
	}
	query += ` GROUP BY ` + column + ` ORDER BY n DESC, ` + column + ` ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ranking %s countries: %w", side, err)
	}
	defer rows.Close()

	results := []CountryCount{}
	for rows.Next() {
		var c CountryCount
		if err := rows.Scan(&c.Country, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning ranking: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// YearRegionCounts returns visits per year per visited region, ordered by
// year then region.
func (d *DB) YearRegionCounts() ([]YearRegionCount, error) {
	rows, err := d.db.Query(`
		SELECT trip_year, visited_region, COUNT(*)
		FROM visits
		GROUP BY trip_year, visited_region
		ORDER BY trip_year, visited_region
	`)
	if err != nil {
		return nil, fmt.Errorf("counting visits by year and region: %w", err)
	}
	defer rows.Close()

	results := []YearRegionCount{}
	for rows.Next() {
		var c YearRegionCount
		if err := rows.Scan(&c.Year, &c.Region, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning year/region count: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Regions returns the distinct non-empty regions on either side of a visit.
func (d *DB) Regions() ([]string, error) {
	rows, err := d.db.Query(`
		SELECT leader_region FROM visits WHERE leader_region != ''
		UNION
		SELECT visited_region FROM visits WHERE visited_region != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("listing regions: %w", err)
	}
	defer rows.Close()

	regions := []string{}
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scanning region: %w", err)
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(regions)
	return regions, nil
}

// TopSent ranks leader countries by trips made.
func (d *DB) TopSent(year, limit int) ([]CountryCount, error) {
	return d.TopCountries(SideSent, year, limit)
}

// TopReceived ranks visited countries by trips hosted.
func (d *DB) TopReceived(year, limit int) ([]CountryCount, error) {
	return d.TopCountries(SideReceived, year, limit)
}
