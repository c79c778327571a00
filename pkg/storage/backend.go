package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"indexdb/pkg/common"

	_ "modernc.org/sqlite"
)

var ErrUnsupportedFormat = errors.New("storage: unsupported seed format")

// Source yields records in the order they should be inserted.
type Source interface {
	LoadAll() ([]common.Record, error)
	Close() error
}

// Inserter is the part of the engine a seed needs.
type Inserter interface {
	InsertRecord(rec common.Record) int
}

// Open picks a Source for path. format may be "csv" or "sqlite"; when empty
// it is inferred from the file extension.
func Open(path, format string) (Source, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			format = "csv"
		case ".db", ".sqlite", ".sqlite3":
			format = "sqlite"
		}
	}
	switch strings.ToLower(format) {
	case "csv":
		return NewCSVSource(path), nil
	case "sqlite":
		return NewSQLiteSource(path)
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, format, path)
	}
}

// LoadInto inserts every record from src into dst and returns how many were inserted.
func LoadInto(dst Inserter, src Source) (int, error) {
	records, err := src.LoadAll()
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		dst.InsertRecord(r)
	}
	return len(records), nil
}

// SQLiteSource stores seed records in a single table. seq preserves the
// order records were saved in, which becomes their heap order on load.
type SQLiteSource struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS records (
		seq   INTEGER PRIMARY KEY AUTOINCREMENT,
		id    INTEGER NOT NULL,
		first TEXT NOT NULL DEFAULT '',
		last  TEXT NOT NULL DEFAULT '',
		major TEXT NOT NULL DEFAULT '',
		year  INTEGER NOT NULL DEFAULT 0,
		gpa   REAL NOT NULL DEFAULT 0
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("init records table: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

// Save appends records in one transaction.
func (s *SQLiteSource) Save(records []common.Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO records (id, first, last, major, year, gpa) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.ID, r.First, r.Last, r.Major, r.Year, r.GPA); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert id=%d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteSource) LoadAll() ([]common.Record, error) {
	rows, err := s.db.Query("SELECT id, first, last, major, year, gpa FROM records ORDER BY seq ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []common.Record
	for rows.Next() {
		var r common.Record
		if err := rows.Scan(&r.ID, &r.First, &r.Last, &r.Major, &r.Year, &r.GPA); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteSource) Truncate() error {
	_, err := s.db.Exec("DELETE FROM records")
	return err
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
