package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/spicemodel/internal/extract"
)

func seedModel(t *testing.T, s *Store, name, typ string, vth float64) {
	t.Helper()
	require.NoError(t, s.InsertModel(extract.ModelRecord{
		Name: name, Type: typ, SourceFile: "a.sp", Line: 1,
		Params: map[string]extract.ParameterValue{
			"vth": {Raw: "x", Kind: extract.ValueNumeric, Scaled: vth},
		},
	}))
}

func TestQueryModels_FiltersByType(t *testing.T) {
	s := newTestStore(t)
	seedModel(t, s, "nmos1", "nmos", 0.7)
	seedModel(t, s, "pmos1", "pmos", -0.7)

	results, err := s.QueryModels(context.Background(), ModelFilter{Type: "nmos"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "nmos1", results[0].Name)
}

func TestQueryModels_TypeIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	seedModel(t, s, "nmos1", "nmos", 0.7)

	results, err := s.QueryModels(context.Background(), ModelFilter{Type: "NMOS"})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestQueryModels_NamePatternLike(t *testing.T) {
	s := newTestStore(t)
	seedModel(t, s, "nmos_fast", "nmos", 0.6)
	seedModel(t, s, "nmos_slow", "nmos", 0.8)

	results, err := s.QueryModels(context.Background(), ModelFilter{Type: "nmos", NamePattern: "nmos_f%"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "nmos_fast", results[0].Name)
}

func TestQueryModels_RangePredicateFiltersOnNumericParameter(t *testing.T) {
	s := newTestStore(t)
	seedModel(t, s, "nmos_fast", "nmos", 0.6)
	seedModel(t, s, "nmos_slow", "nmos", 0.8)

	min := 0.65
	results, err := s.QueryModels(context.Background(), ModelFilter{
		Type:   "nmos",
		Ranges: []ParameterRangePredicate{{Name: "vth", Min: &min}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "nmos_slow", results[0].Name)
}

func TestQueryModels_MultipleRangePredicatesAreANDed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertModel(extract.ModelRecord{
		Name: "nmos1", Type: "nmos", SourceFile: "a.sp", Line: 1,
		Params: map[string]extract.ParameterValue{
			"vth": {Raw: "0.7", Kind: extract.ValueNumeric, Scaled: 0.7},
			"tox": {Raw: "2n", Kind: extract.ValueNumeric, Scaled: 2e-9},
		},
	}))

	minVth := 0.6
	maxTox := 1e-9
	results, err := s.QueryModels(context.Background(), ModelFilter{
		Type: "nmos",
		Ranges: []ParameterRangePredicate{
			{Name: "vth", Min: &minVth},
			{Name: "tox", Max: &maxTox},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, results, "tox=2n exceeds the 1n max predicate, so no model should match both")
}

func TestQueryModels_LoadsAllParameters(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertModel(extract.ModelRecord{
		Name: "nmos1", Type: "nmos", SourceFile: "a.sp", Line: 1,
		Params: map[string]extract.ParameterValue{
			"vth": {Raw: "0.7", Kind: extract.ValueNumeric, Scaled: 0.7},
			"l":   {Raw: "0.18u", Kind: extract.ValueNumeric, Scaled: 0.18e-6},
		},
	}))

	results, err := s.QueryModels(context.Background(), ModelFilter{Type: "nmos"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "0.7", results[0].Params["vth"])
	assert.Equal(t, "0.18u", results[0].Params["l"])
}

func TestQueryModels_MaxResultsCapsOutput(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		seedModel(t, s, string(rune('a'+i))+"_nmos", "nmos", 0.7)
	}

	results, err := s.QueryModels(context.Background(), ModelFilter{Type: "nmos", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuerySubcircuits_NamePatternLike(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertSubcircuit(extract.SubcircuitRecord{
		Name: "inv", Content: ".subckt inv\n.ends", SourceFile: "a.sp", Line: 1,
	}))
	require.NoError(t, s.InsertSubcircuit(extract.SubcircuitRecord{
		Name: "nand2", Content: ".subckt nand2\n.ends", SourceFile: "a.sp", Line: 5,
	}))

	results, err := s.QuerySubcircuits(context.Background(), SubcircuitFilter{NamePattern: "inv%"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "inv", results[0].Name)
}

func TestResolveMaxResults_DefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, defaultMaxResults, resolveMaxResults(0))
	assert.Equal(t, 7, resolveMaxResults(7))
}
