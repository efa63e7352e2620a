package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchema_Tables(t *testing.T) {
	db := NewTestDBMinimal(t)

	require.NoError(t, CreateSchema(db))

	for _, table := range []string{"models", "parameters", "subcircuits", "store_metadata"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestCreateSchema_Indexes(t *testing.T) {
	db := NewTestDBMinimal(t)
	require.NoError(t, CreateSchema(db))

	for _, idx := range getAllIndexes() {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index'").Scan(&count)
		require.NoError(t, err)
		assert.Greater(t, count, 0, "expected indexes to exist, statement=%s", idx)
	}
}

func TestCreateSchema_BootstrapMetadata(t *testing.T) {
	db := NewTestDBMinimal(t)
	require.NoError(t, CreateSchema(db))

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestGetSchemaVersion_NewDatabase(t *testing.T) {
	db := NewTestDBMinimal(t)
	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, "0", version)
}

func TestSchema_ParametersCascadeOnModelDelete(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO models (id, name, type, source_file, line_number) VALUES ('m1','nmos1','nmos','a.sp',1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO parameters (id, model_id, name, value, parameter_type, numeric_value) VALUES ('p1','m1','vth','0.7','NUMERIC',0.7)`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM models WHERE id = 'm1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM parameters WHERE model_id = 'm1'`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSchema_ParameterTypeCheckConstraint(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO models (id, name, type, source_file, line_number) VALUES ('m1','nmos1','nmos','a.sp',1)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO parameters (id, model_id, name, value, parameter_type, numeric_value) VALUES ('p1','m1','vth','x','BOGUS',NULL)`)
	assert.Error(t, err)
}
