package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matsen/visitflow/internal/visit"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testVisits() []visit.Record {
	return []visit.Record{
		{Year: 2001, LeaderCountry: "France", LeaderRegion: "Europe", VisitedCountry: "Japan", VisitedRegion: "Asia",
			LeaderName: "Jacques Chirac", StartDate: "2001-03-10", EndDate: "2001-03-12"},
		{Year: 2001, LeaderCountry: "France", LeaderRegion: "Europe", VisitedCountry: "Chile", VisitedRegion: "Americas",
			LeaderName: "Jacques Chirac", StartDate: "2001-01-05"},
		{Year: 2002, LeaderCountry: "France", LeaderRegion: "Europe", VisitedCountry: "Japan", VisitedRegion: "Asia",
			LeaderName: "Lionel Jospin", StartDate: "2002-06-01", Remarks: "summit"},
		{Year: 2002, LeaderCountry: "France", LeaderRegion: "Europe", VisitedCountry: "Japan", VisitedRegion: "Asia",
			LeaderName: "Jacques Chirac", StartDate: "unknown"},
		{Year: 2002, LeaderCountry: "Japan", LeaderRegion: "Asia", VisitedCountry: "France", VisitedRegion: "Europe"},
		{Year: 2002, LeaderCountry: "Chile", LeaderRegion: "Americas", VisitedCountry: "Japan", VisitedRegion: "Asia"},
	}
}

func TestDB_RebuildFromJSONL(t *testing.T) {
	tmpDir := t.TempDir()
	jsonlPath := filepath.Join(tmpDir, "visits.jsonl")
	if err := WriteAll(jsonlPath, testVisits()); err != nil {
		t.Fatal(err)
	}

	db := openTestDB(t)

	count, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if count != len(testVisits()) {
		t.Errorf("RebuildFromJSONL() = %d, want %d", count, len(testVisits()))
	}

	// Rebuilding again replaces rather than duplicates
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatal(err)
	}
	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != len(testVisits()) {
		t.Errorf("Count() after second rebuild = %d, want %d", n, len(testVisits()))
	}
}

func TestDB_RebuildFromJSONL_MissingFile(t *testing.T) {
	db := openTestDB(t)

	count, err := db.RebuildFromJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if count != 0 {
		t.Errorf("RebuildFromJSONL() = %d, want 0", count)
	}
}

func TestDB_RebuildFromJSONL_Malformed(t *testing.T) {
	jsonlPath := filepath.Join(t.TempDir(), "visits.jsonl")
	if err := os.WriteFile(jsonlPath, []byte("{oops\n"), 0644); err != nil {
		t.Fatal(err)
	}

	db := openTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err == nil {
		t.Error("RebuildFromJSONL() on malformed file should fail")
	}
}

func TestDB_AllVisits_PreservesOrder(t *testing.T) {
	db := openTestDB(t)
	want := testVisits()
	if err := db.ReplaceAll(want); err != nil {
		t.Fatal(err)
	}

	got, err := db.AllVisits()
	if err != nil {
		t.Fatalf("AllVisits() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllVisits() =\n %+v\nwant\n %+v", got, want)
	}
}

func TestDB_TopCountries(t *testing.T) {
	db := openTestDB(t)
	if err := db.ReplaceAll(testVisits()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		side  string
		year  int
		limit int
		want  []CountryCount
	}{
		{
			name: "sent all years",
			side: SideSent,
			want: []CountryCount{{"France", 4}, {"Chile", 1}, {"Japan", 1}},
		},
		{
			name:  "sent limited",
			side:  SideSent,
			limit: 1,
			want:  []CountryCount{{"France", 4}},
		},
		{
			name: "received in 2002",
			side: SideReceived,
			year: 2002,
			want: []CountryCount{{"Japan", 3}, {"France", 1}},
		},
		{
			name: "year without visits",
			side: SideReceived,
			year: 1900,
			want: []CountryCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.TopCountries(tt.side, tt.year, tt.limit)
			if err != nil {
				t.Fatalf("TopCountries() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopCountries() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := db.TopCountries("both", 0, 0); err == nil {
		t.Error("TopCountries() with invalid side should fail")
	}
}

func TestDB_YearRegionCounts(t *testing.T) {
	db := openTestDB(t)
	if err := db.ReplaceAll(testVisits()); err != nil {
		t.Fatal(err)
	}

	got, err := db.YearRegionCounts()
	if err != nil {
		t.Fatalf("YearRegionCounts() error = %v", err)
	}
	want := []YearRegionCount{
		{2001, "Americas", 1},
		{2001, "Asia", 1},
		{2002, "Asia", 3},
		{2002, "Europe", 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("YearRegionCounts() = %v, want %v", got, want)
	}
}

func TestDB_Regions(t *testing.T) {
	db := openTestDB(t)

	regions, err := db.Regions()
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 0 {
		t.Errorf("Regions() on empty db = %v", regions)
	}

	visits := append(testVisits(), visit.Record{Year: 2003, LeaderCountry: "Niue", VisitedCountry: "Fiji", VisitedRegion: "Oceania"})
	if err := db.ReplaceAll(visits); err != nil {
		t.Fatal(err)
	}

	regions, err = db.Regions()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Americas", "Asia", "Europe", "Oceania"}
	if !reflect.DeepEqual(regions, want) {
		t.Errorf("Regions() = %v, want %v", regions, want)
	}
}

func TestDB_CountryProfile(t *testing.T) {
	db := openTestDB(t)
	if err := db.ReplaceAll(testVisits()); err != nil {
		t.Fatal(err)
	}

	p, err := db.CountryProfile("France")
	if err != nil {
		t.Fatalf("CountryProfile() error = %v", err)
	}

	// The trip with an unparseable date is dropped.
	if p.Total != 3 {
		t.Errorf("Total = %d, want 3", p.Total)
	}
	wantYears := []YearCount{{2001, 2}, {2002, 1}}
	if !reflect.DeepEqual(p.ByYear, wantYears) {
		t.Errorf("ByYear = %v, want %v", p.ByYear, wantYears)
	}
	if len(p.Leaders) != 2 || p.Leaders[0].Leader != "Jacques Chirac" || p.Leaders[1].Leader != "Lionel Jospin" {
		t.Fatalf("Leaders = %+v", p.Leaders)
	}
	chirac := p.Leaders[0].Trips
	if len(chirac) != 2 || chirac[0].Visited != "Chile" || chirac[1].Visited != "Japan" {
		t.Errorf("Chirac trips not in date order: %+v", chirac)
	}
	if chirac[1].Days != 3 {
		t.Errorf("Japan trip Days = %d, want 3", chirac[1].Days)
	}

	empty, err := db.CountryProfile("Atlantis")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Total != 0 || len(empty.ByYear) != 0 || len(empty.Leaders) != 0 {
		t.Errorf("unknown country profile = %+v", empty)
	}
}
