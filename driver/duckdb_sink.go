package driver

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// DuckDBSink appends every pushed Snapshot as a row to an on-disk DuckDB
// database, so a learning curve from a long run can be queried with SQL
// afterwards instead of re-parsing a CSV export.
type DuckDBSink struct {
	db   *sql.DB
	stmt *sql.Stmt
}

const duckDBSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	run_id         VARCHAR,
	instances_seen BIGINT,
	accuracy       DOUBLE,
	kappa          DOUBLE,
	ram_hours      DOUBLE,
	seconds        DOUBLE
)`

const duckDBInsert = `INSERT INTO snapshots (run_id, instances_seen, accuracy, kappa, ram_hours, seconds) VALUES (?, ?, ?, ?, ?, ?)`

// NewDuckDBSink opens (or creates) a DuckDB database at path and prepares
// the snapshots table. Extras are not persisted, matching the lossiness
// boundary of the CSV/TSV exporters in export.go.
func NewDuckDBSink(path string) (*DuckDBSink, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("driver: opening duckdb sink: %w", err)
	}
	if _, err := db.Exec(duckDBSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("driver: creating duckdb schema: %w", err)
	}
	stmt, err := db.Prepare(duckDBInsert)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("driver: preparing duckdb insert: %w", err)
	}
	return &DuckDBSink{db: db, stmt: stmt}, nil
}

// Push inserts snap as a row. A failed insert is logged to nowhere and
// dropped, matching Sink's "never blocks or panics the driver" contract.
func (s *DuckDBSink) Push(snap Snapshot) {
	if s == nil || s.stmt == nil {
		return
	}
	_, _ = s.stmt.Exec(snap.RunID.String(), snap.InstancesSeen, snap.Accuracy, snap.Kappa, snap.RAMHours, snap.Seconds)
}

// Close releases the prepared statement and the underlying connection.
func (s *DuckDBSink) Close() error {
	if s == nil {
		return nil
	}
	if s.stmt != nil {
		_ = s.stmt.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
