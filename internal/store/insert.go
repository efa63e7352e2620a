package store

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mvp-joe/spicemodel/internal/extract"
)

// InsertModel writes a model and its parameters in a single transaction.
// Every call keys its rows with fresh UUIDs, so re-extracting a file adds
// new rows beside the earlier ones; OR REPLACE only takes effect on an id
// collision.
func (s *Store) InsertModel(rec extract.ModelRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin model insert transaction: %w", err)
	}
	defer tx.Rollback()

	modelID := uuid.New().String()

	modelSQL, modelArgs, err := sq.Insert("models").
		Columns("id", "name", "type", "source_file", "line_number").
		Values(modelID, rec.Name, rec.Type, rec.SourceFile, rec.Line).
		Options("OR REPLACE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build model insert SQL: %w", err)
	}
	if _, err := tx.Exec(modelSQL, modelArgs...); err != nil {
		return fmt.Errorf("failed to insert model %s: %w", rec.Name, err)
	}

	paramSQL, _, err := sq.Insert("parameters").
		Columns("id", "model_id", "name", "value", "parameter_type", "numeric_value").
		Values("", "", "", "", "", nil).
		Options("OR REPLACE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build parameter insert SQL: %w", err)
	}
	paramStmt, err := tx.Prepare(paramSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare parameter insert statement: %w", err)
	}
	defer paramStmt.Close()

	for name, pv := range rec.Params {
		paramType, numericValue := parameterTypeColumns(pv)
		if _, err := paramStmt.Exec(uuid.New().String(), modelID, name, pv.Raw, paramType, numericValue); err != nil {
			return fmt.Errorf("failed to insert parameter %s.%s: %w", rec.Name, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit model %s: %w", rec.Name, err)
	}
	return nil
}

// InsertSubcircuit writes a single subcircuit row.
func (s *Store) InsertSubcircuit(rec extract.SubcircuitRecord) error {
	sqlStr, args, err := sq.Insert("subcircuits").
		Columns("id", "name", "content", "source_file", "line_number").
		Values(uuid.New().String(), rec.Name, rec.Content, rec.SourceFile, rec.Line).
		Options("OR REPLACE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build subcircuit insert SQL: %w", err)
	}
	if _, err := s.db.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to insert subcircuit %s: %w", rec.Name, err)
	}
	return nil
}

// Handler adapts a Store to extract.Handler, inserting each record as it
// arrives and accumulating any insert errors rather than aborting the
// extraction pass partway through a file.
type Handler struct {
	Store  *Store
	Errors []error
}

// NewHandler returns a Handler backed by s.
func NewHandler(s *Store) *Handler {
	return &Handler{Store: s}
}

func (h *Handler) HandleModel(rec extract.ModelRecord) {
	if err := h.Store.InsertModel(rec); err != nil {
		h.Errors = append(h.Errors, err)
	}
}

func (h *Handler) HandleSubcircuit(rec extract.SubcircuitRecord) {
	if err := h.Store.InsertSubcircuit(rec); err != nil {
		h.Errors = append(h.Errors, err)
	}
}

// Err returns a combined error if any insert failed, nil otherwise.
func (h *Handler) Err() error {
	if len(h.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%d insert error(s), first: %w", len(h.Errors), h.Errors[0])
}

// parameterTypeColumns maps a classified parameter value onto the
// parameter_type/numeric_value columns: STRING values carry a NULL
// numeric_value, NUMERIC values carry their scaled float.
func parameterTypeColumns(pv extract.ParameterValue) (string, sql.NullFloat64) {
	if pv.Kind == extract.ValueNumeric {
		return "NUMERIC", sql.NullFloat64{Float64: pv.Scaled, Valid: true}
	}
	return "STRING", sql.NullFloat64{}
}
