package storage

import (
	"fmt"
	"sort"
)

// Trip is one dated visit made by a country's leader.
type Trip struct {
	Visited       string `json:"visited"`
	VisitedRegion string `json:"visited_region"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	Days          int    `json:"days"`
	Remarks       string `json:"remarks,omitempty"`
}

// YearCount is the number of trips in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// LeaderTrips groups the trips of one leader.
type LeaderTrips struct {
	Leader string `json:"leader"`
	Trips  []Trip `json:"trips"`
}

// Profile summarizes the trips made by one leader country.
type Profile struct {
	Country string        `json:"country"`
	Total   int           `json:"total"`
	ByYear  []YearCount   `json:"by_year"`
	Leaders []LeaderTrips `json:"leaders"`
}

// CountryProfile returns the dated trips of country's leaders. Trips without
// a parseable start date are left out. Years ascend; leaders appear in the
// order of their first trip; trips within a leader are in date order.
func (d *DB) CountryProfile(country string) (*Profile, error) {
	rows, err := d.db.Query(`SELECT `+selectVisitFields+` FROM visits WHERE leader_country = ? ORDER BY seq`, country)
	if err != nil {
		return nil, fmt.Errorf("querying visits for %s: %w", country, err)
	}
	defer rows.Close()

	visits, err := scanVisits(rows)
	if err != nil {
		return nil, err
	}

	type dated struct {
		trip   Trip
		leader string
		year   int
		unix   int64
	}
	var trips []dated
	for _, v := range visits {
		start, ok := v.Start()
		if !ok {
			continue
		}
		trips = append(trips, dated{
			trip: Trip{
				Visited:       v.VisitedCountry,
				VisitedRegion: v.VisitedRegion,
				StartDate:     v.StartDate,
				EndDate:       v.EndDate,
				Days:          v.Days(),
				Remarks:       v.Remarks,
			},
			leader: v.LeaderName,
			year:   int(v.Year),
			unix:   start.Unix(),
		})
	}
	sort.SliceStable(trips, func(i, j int) bool { return trips[i].unix < trips[j].unix })

	p := &Profile{
		Country: country,
		Total:   len(trips),
		ByYear:  []YearCount{},
		Leaders: []LeaderTrips{},
	}

	byYear := make(map[int]int)
	leaderIdx := make(map[string]int)
	for _, t := range trips {
		byYear[t.year]++
		i, ok := leaderIdx[t.leader]
		if !ok {
			i = len(p.Leaders)
			leaderIdx[t.leader] = i
			p.Leaders = append(p.Leaders, LeaderTrips{Leader: t.leader})
		}
		p.Leaders[i].Trips = append(p.Leaders[i].Trips, t.trip)
	}

	for y, c := range byYear {
		p.ByYear = append(p.ByYear, YearCount{Year: y, Count: c})
	}
	sort.Slice(p.ByYear, func(i, j int) bool { return p.ByYear[i].Year < p.ByYear[j].Year })

	return p, nil
}
