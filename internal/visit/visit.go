// Package visit defines the diplomatic visit record consumed by the chord pipeline.
package visit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Record is one diplomatic trip. Field names follow the columns of the
// upstream visits dataset.
type Record struct {
	Year           Year   `json:"TripYear"`
	LeaderCountry  string `json:"LeaderCountryOrIGO"`
	LeaderRegion   string `json:"LeaderRegion"`
	VisitedCountry string `json:"CountryVisited"`
	VisitedRegion  string `json:"RegionVisited"`

	// Not used by the chord pipeline
	LeaderName string `json:"LeaderFullName,omitempty"`
	StartDate  string `json:"TripStartDate,omitempty"`
	EndDate    string `json:"TripEndDate,omitempty"`
	Remarks    string `json:"Remarks,omitempty"`
}

// Year is a trip year. It decodes from a JSON number or a numeric string,
// since columnar exports often render 64-bit integers as strings.
type Year int

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*y = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid year %q", s)
		}
		*y = Year(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*y = Year(int(f))
	return nil
}

// Validation errors.
var (
	ErrEmptyLeaderCountry  = errors.New("LeaderCountryOrIGO is required")
	ErrEmptyVisitedCountry = errors.New("CountryVisited is required")
	ErrInvalidYear         = errors.New("TripYear must be positive")
)

// Validate checks the fields the chord pipeline keys on.
// Regions may be empty; they simply never match a region allow-list.
func (r *Record) Validate() error {
	if r.LeaderCountry == "" {
		return ErrEmptyLeaderCountry
	}
	if r.VisitedCountry == "" {
		return ErrEmptyVisitedCountry
	}
	if r.Year <= 0 {
		return ErrInvalidYear
	}
	return nil
}

// dateLayouts are the start/end date formats seen in exports.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
}

// Start parses StartDate. The boolean is false when the date is missing or
// unparseable.
func (r *Record) Start() (time.Time, bool) {
	return parseDate(r.StartDate)
}

// Days returns the trip length in days, counting both ends. Returns 1 when
// the end date is missing or precedes the start.
func (r *Record) Days() int {
	start, ok := parseDate(r.StartDate)
	if !ok {
		return 1
	}
	end, ok := parseDate(r.EndDate)
	if !ok || end.Before(start) {
		return 1
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
