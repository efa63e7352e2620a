package extract

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Driver reads a netlist file from disk and runs it through the
// lexer/parser, handing every surviving record to a Handler.
type Driver struct {
	log *LogSink
}

// NewDriver builds a Driver. log may be nil to discard anomalies.
func NewDriver(log *LogSink) *Driver {
	return &Driver{log: log}
}

// Summary tallies what one ExtractFile call produced, for the CLI's
// per-file report.
type Summary struct {
	ModelsExtracted      int
	ModelsDropped        int
	SubcircuitsExtracted int
}

type countingHandler struct {
	inner   Handler
	summary Summary
}

func (c *countingHandler) HandleModel(m ModelRecord) {
	c.summary.ModelsExtracted++
	c.inner.HandleModel(m)
}

func (c *countingHandler) HandleSubcircuit(s SubcircuitRecord) {
	c.summary.SubcircuitsExtracted++
	c.inner.HandleSubcircuit(s)
}

// ExtractFile reads path, normalizes it, and streams every model and
// subcircuit it contains to h. Dropped models never reach h directly;
// ModelsDropped is instead derived by diffing the log sink's dropped
// counter across the call, so it reads 0 whenever no log sink is
// configured (anomalies are then silently discarded).
func (d *Driver) ExtractFile(path string, h Handler) (Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read %s: %w", path, err)
	}

	orig := normalizeLineEndings(raw)
	normalized := bytes.ToLower(orig)
	origLines := splitLines(orig)

	lex := NewLexer(normalized, path)
	parser := NewParser(lex, path, origLines, d.log)

	droppedBefore := d.log.DroppedCount()
	counting := &countingHandler{inner: h}
	if err := parser.Run(counting); err != nil {
		return counting.summary, fmt.Errorf("parse %s: %w", path, err)
	}
	counting.summary.ModelsDropped = int(d.log.DroppedCount() - droppedBefore)
	return counting.summary, nil
}

// normalizeLineEndings collapses CRLF and bare CR into LF, so the lexer's
// line-counting only ever has to deal with '\n'.
func normalizeLineEndings(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return b
}

func splitLines(b []byte) []string {
	return strings.Split(string(b), "\n")
}
