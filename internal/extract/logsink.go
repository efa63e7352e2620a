package extract

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LogSink is the optional anomaly log: every dropped/malformed directive
// the parser encounters is appended here as one line, if configured. A
// nil *LogSink silently discards everything, so callers that don't
// configure log_path never need to check for nil themselves.
type LogSink struct {
	out     *log.Logger
	dropped atomic.Int64
}

// NewLogSink opens path for appending and returns a LogSink writing to
// it, opening the file on construction and closing it on disposal. If
// path is empty, it returns a nil sink and a no-op closer.
func NewLogSink(path string) (sink *LogSink, closer func() error, err error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log_path %q: %w", path, err)
	}
	return &LogSink{out: log.New(f, "", log.LstdFlags)}, f.Close, nil
}

// Logf records one anomaly, prefixed with the source file and line. Any
// message of the form "... dropped: reason" also advances DroppedCount,
// so a caller can derive a models-dropped tally by diffing the counter
// across an extraction pass. The colon distinguishes an actual drop from
// an unrelated mention of the word, such as "nested .subckt dropped
// inside %q" (a subcircuit-nesting note, not a model drop).
func (s *LogSink) Logf(file string, line int, format string, args ...interface{}) {
	if s == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	s.out.Printf("%s:%d: %s", file, line, msg)
	if strings.Contains(msg, "dropped:") {
		s.dropped.Add(1)
	}
}

// DroppedCount returns the running total of logged messages recording an
// actual drop. A nil receiver reports zero.
func (s *LogSink) DroppedCount() int64 {
	if s == nil {
		return 0
	}
	return s.dropped.Load()
}
