package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/spicemodel/internal/extract"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := NewTestDB(t)
	return &Store{db: db}
}

func TestInsertModel_PersistsModelAndParameters(t *testing.T) {
	s := newTestStore(t)

	rec := extract.ModelRecord{
		Name:       "nmos1",
		Type:       "nmos",
		SourceFile: "a.sp",
		Line:       3,
		Params: map[string]extract.ParameterValue{
			"vth": {Raw: "0.7", Kind: extract.ValueNumeric, Scaled: 0.7},
			"l":   {Raw: "0.18u", Kind: extract.ValueNumeric, Scaled: 0.18e-6},
		},
	}
	require.NoError(t, s.InsertModel(rec))

	var name, modelType string
	require.NoError(t, s.db.QueryRow("SELECT name, type FROM models").Scan(&name, &modelType))
	assert.Equal(t, "nmos1", name)
	assert.Equal(t, "nmos", modelType)

	var paramCount int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM parameters").Scan(&paramCount))
	assert.Equal(t, 2, paramCount)

	var numericValue float64
	require.NoError(t, s.db.QueryRow("SELECT numeric_value FROM parameters WHERE name = 'vth'").Scan(&numericValue))
	assert.InDelta(t, 0.7, numericValue, 1e-12)
}

func TestInsertModel_StringParameterHasNullNumericValue(t *testing.T) {
	s := newTestStore(t)

	rec := extract.ModelRecord{
		Name: "customnl", Type: "nmos", SourceFile: "a.sp", Line: 1,
		Params: map[string]extract.ParameterValue{
			"level": {Raw: "customnl", Kind: extract.ValueString},
		},
	}
	require.NoError(t, s.InsertModel(rec))

	var paramType string
	var numeric sql.NullFloat64
	require.NoError(t, s.db.QueryRow(
		"SELECT parameter_type, numeric_value FROM parameters WHERE name = 'level'",
	).Scan(&paramType, &numeric))
	assert.Equal(t, "STRING", paramType)
	assert.False(t, numeric.Valid)
}

func TestInsertSubcircuit_Persists(t *testing.T) {
	s := newTestStore(t)

	rec := extract.SubcircuitRecord{
		Name:       "inv",
		Content:    ".subckt inv in out vdd vss\n+ m1 out in vdd vdd pmos1\n.ends",
		SourceFile: "a.sp",
		Line:       10,
	}
	require.NoError(t, s.InsertSubcircuit(rec))

	var content string
	require.NoError(t, s.db.QueryRow("SELECT content FROM subcircuits WHERE name = 'inv'").Scan(&content))
	assert.Contains(t, content, ".ends")
}

func TestInsertModel_CascadesParametersOnModelRemoval(t *testing.T) {
	s := newTestStore(t)

	rec := extract.ModelRecord{
		Name: "nmos1", Type: "nmos", SourceFile: "a.sp", Line: 1,
		Params: map[string]extract.ParameterValue{
			"vth": {Raw: "0.7", Kind: extract.ValueNumeric, Scaled: 0.7},
		},
	}
	require.NoError(t, s.InsertModel(rec))

	_, err := s.db.Exec("DELETE FROM models WHERE name = 'nmos1'")
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM parameters").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestHandler_InsertsEachRecordWithoutErrors(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	h.HandleModel(extract.ModelRecord{Name: "nmos1", Type: "nmos", SourceFile: "a.sp", Line: 1})
	h.HandleSubcircuit(extract.SubcircuitRecord{Name: "inv", Content: ".subckt inv\n.ends", SourceFile: "a.sp", Line: 5})

	assert.NoError(t, h.Err())

	var modelCount, subcktCount int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM models").Scan(&modelCount))
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM subcircuits").Scan(&subcktCount))
	assert.Equal(t, 1, modelCount)
	assert.Equal(t, 1, subcktCount)
}
