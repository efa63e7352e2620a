package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNetlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circuit.sp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractFile_FoldsMixedCaseForMatchingButPreservesSubcircuitBody(t *testing.T) {
	path := writeNetlist(t, ".MODEL NMOS1 NMOS (VTH=0.7 TOX=1.4E-8)\n"+
		".SUBCKT Inverter IN OUT VDD VSS\n"+
		"M1 OUT IN VDD VDD PMOS1\n"+
		".ENDS Inverter\n")

	h := &collectingHandler{}
	d := NewDriver(nil)
	summary, err := d.ExtractFile(path, h)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ModelsExtracted)
	assert.Equal(t, 1, summary.SubcircuitsExtracted)

	require.Len(t, h.models, 1)
	assert.Equal(t, "nmos1", h.models[0].Name)
	assert.Equal(t, "nmos", h.models[0].Type)
	require.Contains(t, h.models[0].Params, "vth")
	assert.InDelta(t, 0.7, h.models[0].Params["vth"].Scaled, 1e-9)

	require.Len(t, h.subs, 1)
	assert.Equal(t, "inverter", h.subs[0].Name)
	assert.Contains(t, h.subs[0].Content, "M1 OUT IN VDD VDD PMOS1",
		"subcircuit body text must retain its original case even though matching is case-insensitive")
}

func TestExtractFile_CRLFLineEndingsNormalized(t *testing.T) {
	path := writeNetlist(t, ".model nmos1 nmos vth=0.7\r\n.model nmos2 nmos vth=0.8\r\n")

	h := &collectingHandler{}
	d := NewDriver(nil)
	summary, err := d.ExtractFile(path, h)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ModelsExtracted)
	require.Len(t, h.models, 2)
}

func TestExtractFile_MissingFileReturnsError(t *testing.T) {
	h := &collectingHandler{}
	d := NewDriver(nil)
	_, err := d.ExtractFile(filepath.Join(t.TempDir(), "does-not-exist.sp"), h)
	assert.Error(t, err)
}

func TestExtractFile_LogsDroppedDirectivesWhenSinkConfigured(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "anomalies.log")
	sink, closer, err := NewLogSink(logPath)
	require.NoError(t, err)
	defer closer()

	path := writeNetlist(t, ".model bad nmos l=max(0.18u,0.2u)\n.model good nmos vth=0.7\n")

	h := &collectingHandler{}
	d := NewDriver(sink)
	summary, err := d.ExtractFile(path, h)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ModelsExtracted)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "bad")
}
