// Package store implements the relational schema, indexer, and query
// engine behind the netlist extractor: models, their parameters, and
// subcircuits, all queryable case-insensitively with range predicates
// over numeric parameters.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

const createModelsTable = `
CREATE TABLE models (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL COLLATE NOCASE,
	type        TEXT NOT NULL COLLATE NOCASE,
	source_file TEXT NOT NULL,
	line_number INTEGER NOT NULL
)
`

const createParametersTable = `
CREATE TABLE parameters (
	id             TEXT PRIMARY KEY,
	model_id       TEXT NOT NULL,
	name           TEXT NOT NULL COLLATE NOCASE,
	value          TEXT NOT NULL,                  -- raw text as it appeared, after case normalization
	parameter_type TEXT NOT NULL CHECK (parameter_type IN ('NUMERIC', 'STRING')),
	numeric_value  REAL,                            -- set iff parameter_type = 'NUMERIC'
	FOREIGN KEY (model_id) REFERENCES models(id) ON DELETE CASCADE
)
`

const createSubcircuitsTable = `
CREATE TABLE subcircuits (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL COLLATE NOCASE,
	content     TEXT NOT NULL,                      -- .subckt header through matching .ends, inclusive
	source_file TEXT NOT NULL,
	line_number INTEGER NOT NULL
)
`

const createStoreMetadataTable = `
CREATE TABLE store_metadata (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)
`

// CreateSchema creates all tables and indexes in one transaction, so
// schema creation succeeds or fails atomically. Must be called with a
// connection that has PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"models", createModelsTable},
		{"parameters", createParametersTable},
		{"subcircuits", createSubcircuitsTable},
		{"store_metadata", createStoreMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	indexes := getAllIndexes()
	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	bootstrapSQL := `
		INSERT INTO store_metadata (key, value, updated_at) VALUES
			('schema_version', '1', ?),
			('created_at', ?, ?)
	`
	if _, err := tx.Exec(bootstrapSQL, now, now, now); err != nil {
		return fmt.Errorf("failed to bootstrap store_metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// GetSchemaVersion retrieves the schema version from store_metadata.
// Returns "0" if the table doesn't exist (new database).
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='store_metadata'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check store_metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM store_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in store_metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

// getAllIndexes returns every index creation statement the schema needs,
// including the partial index over numeric parameters that keeps range
// queries (e.g. "vth between 0.6 and 0.8") sublinear.
func getAllIndexes() []string {
	return []string{
		"CREATE INDEX idx_models_type ON models(type)",
		"CREATE INDEX idx_models_name ON models(name)",

		"CREATE INDEX idx_parameters_model_id ON parameters(model_id)",
		"CREATE INDEX idx_parameters_name ON parameters(name)",
		"CREATE INDEX idx_parameters_numeric ON parameters(name, numeric_value) WHERE parameter_type = 'NUMERIC'",

		"CREATE INDEX idx_subcircuits_name ON subcircuits(name)",
	}
}
