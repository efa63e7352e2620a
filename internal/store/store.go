package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const defaultMaxResults = 100

// Store wraps a sqlite3 connection holding the models/parameters/subcircuits
// schema.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite3 database at path and
// ensures the schema exists. path may be ":memory:" for an ephemeral
// store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	version, err := GetSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("check schema version for %q: %w", path, err)
	}
	if version == "0" {
		if err := CreateSchema(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema for %q: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clear removes every model, parameter, and subcircuit row, leaving the
// schema intact.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"parameters", "models", "subcircuits"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Stats reports row counts across the schema.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM models").Scan(&st.ModelCount); err != nil {
		return Stats{}, fmt.Errorf("count models: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM parameters").Scan(&st.ParameterCount); err != nil {
		return Stats{}, fmt.Errorf("count parameters: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM subcircuits").Scan(&st.SubcircuitCount); err != nil {
		return Stats{}, fmt.Errorf("count subcircuits: %w", err)
	}
	return st, nil
}
