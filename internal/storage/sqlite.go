package storage

import (
	"database/sql"
	"fmt"

	"github.com/matsen/visitflow/internal/visit"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectVisitFields contains the standard field list for SELECT queries.
const selectVisitFields = `trip_year, leader_country, leader_region,
	visited_country, visited_region,
	leader_name, start_date, end_date, remarks`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per trip; seq preserves JSONL line order
		CREATE TABLE IF NOT EXISTS visits (
			seq INTEGER PRIMARY KEY,
			trip_year INTEGER NOT NULL,
			leader_country TEXT NOT NULL,
			leader_region TEXT NOT NULL,
			visited_country TEXT NOT NULL,
			visited_region TEXT NOT NULL,
			leader_name TEXT,
			start_date TEXT,
			end_date TEXT,
			remarks TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_visits_year ON visits(trip_year);
		CREATE INDEX IF NOT EXISTS idx_visits_leader ON visits(leader_country);
		CREATE INDEX IF NOT EXISTS idx_visits_visited ON visits(visited_country);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	visits, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	if err := d.ReplaceAll(visits); err != nil {
		return 0, err
	}
	return len(visits), nil
}

// ReplaceAll clears the visits table and inserts visits in order, in a
// single transaction.
func (d *DB) ReplaceAll(visits []visit.Record) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM visits"); err != nil {
		return fmt.Errorf("clearing visits table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO visits (
			seq, trip_year, leader_country, leader_region,
			visited_country, visited_region,
			leader_name, start_date, end_date, remarks
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing visits insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range visits {
		_, err := stmt.Exec(
			i+1, int(v.Year), v.LeaderCountry, v.LeaderRegion,
			v.VisitedCountry, v.VisitedRegion,
			nullableStringValue(v.LeaderName), nullableStringValue(v.StartDate),
			nullableStringValue(v.EndDate), nullableStringValue(v.Remarks),
		)
		if err != nil {
			return fmt.Errorf("inserting visit %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing visits: %w", err)
	}
	return nil
}

// AllVisits returns every visit in source file order. Order matters: the
// chord pipeline resolves conflicting country regions by walk order.
func (d *DB) AllVisits() ([]visit.Record, error) {
	rows, err := d.db.Query(`SELECT ` + selectVisitFields + ` FROM visits ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

// Count returns the number of visits in the database.
func (d *DB) Count() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM visits").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting visits: %w", err)
	}
	return count, nil
}

func scanVisits(rows *sql.Rows) ([]visit.Record, error) {
	var visits []visit.Record
	for rows.Next() {
		var v visit.Record
		var year int
		var leaderName, startDate, endDate, remarks sql.NullString
		if err := rows.Scan(
			&year, &v.LeaderCountry, &v.LeaderRegion,
			&v.VisitedCountry, &v.VisitedRegion,
			&leaderName, &startDate, &endDate, &remarks,
		); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.Year = visit.Year(year)
		v.LeaderName = leaderName.String
		v.StartDate = startDate.String
		v.EndDate = endDate.String
		v.Remarks = remarks.String
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visits: %w", err)
	}
	return visits, nil
}

// nullableStringValue returns nil for empty strings so optional columns stay NULL.
func nullableStringValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
