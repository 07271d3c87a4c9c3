// Package store provides SQLite-based calculation history storage.
package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Calculation is one recorded calculator invocation.
type Calculation struct {
	ID            int64   `db:"id" json:"id"`
	CreatedAt     string  `db:"created_at" json:"created_at"` // RFC3339 UTC
	Mode          string  `db:"mode" json:"mode"`
	WidthMm       float64 `db:"width_mm" json:"width_mm"`
	HeightMm      float64 `db:"height_mm" json:"height_mm"`
	DistanceMm    float64 `db:"distance_mm" json:"distance_mm"`
	ReferenceMm   float64 `db:"reference_mm" json:"reference_mm,omitempty"`
	HorizontalDeg float64 `db:"horizontal_deg" json:"horizontal_deg"`
	VerticalDeg   float64 `db:"vertical_deg" json:"vertical_deg"`
}

// DB wraps a SQLite connection for calculation history.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		mode TEXT NOT NULL,
		width_mm REAL NOT NULL,
		height_mm REAL NOT NULL,
		distance_mm REAL NOT NULL,
		reference_mm REAL NOT NULL DEFAULT 0,
		horizontal_deg REAL NOT NULL,
		vertical_deg REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created ON calculations(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Save records a calculation and returns its row ID.
// CreatedAt is stamped with the current UTC time when empty.
func (db *DB) Save(rec Calculation) (int64, error) {
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := db.conn.NamedExec(`
		INSERT INTO calculations
			(created_at, mode, width_mm, height_mm, distance_mm, reference_mm, horizontal_deg, vertical_deg)
		VALUES
			(:created_at, :mode, :width_mm, :height_mm, :distance_mm, :reference_mm, :horizontal_deg, :vertical_deg)`,
		rec)
	if err != nil {
		return 0, fmt.Errorf("insert calculation: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the most recent calculations, newest first.
// A non-positive limit returns an empty slice.
func (db *DB) Recent(limit int) ([]Calculation, error) {
	if limit <= 0 {
		return []Calculation{}, nil
	}
	recs := []Calculation{}
	err := db.conn.Select(&recs, `
		SELECT id, created_at, mode, width_mm, height_mm, distance_mm, reference_mm, horizontal_deg, vertical_deg
		FROM calculations
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select calculations: %w", err)
	}
	return recs, nil
}
