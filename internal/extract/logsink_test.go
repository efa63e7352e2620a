package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogSink_EmptyPathReturnsNilSink(t *testing.T) {
	sink, closer, err := NewLogSink("")
	require.NoError(t, err)
	assert.Nil(t, sink)
	require.NoError(t, closer())

	// A nil sink must tolerate calls the same way as a configured one.
	sink.Logf("f.sp", 1, "anything")
	assert.EqualValues(t, 0, sink.DroppedCount())
}

func TestLogSink_WritesAndCountsDrops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anomalies.log")
	sink, closer, err := NewLogSink(path)
	require.NoError(t, err)
	defer closer()

	sink.Logf("f.sp", 3, "model %q dropped: parameter %q contains an expression", "bad", "l")
	sink.Logf("f.sp", 7, "nested .subckt dropped inside %q", "outer")
	sink.Logf("f.sp", 9, "malformed .model: missing name")

	assert.EqualValues(t, 1, sink.DroppedCount(), "only the colon-qualified drop message should count")

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "f.sp:3:")
	assert.Contains(t, string(contents), "f.sp:7:")
	assert.Contains(t, string(contents), "f.sp:9:")
}
