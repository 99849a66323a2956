package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger is the run log: an append-ordered sequence of timestamped lines
// kept in memory for the lifetime of the run, mirrored to a log file and
// echoed to the out writer. Single-writer; entries appear in call order.
type Logger struct {
	out   io.Writer
	file  *os.File
	lines []string
	now   func() time.Time
}

// New opens the log file in append mode so the persisted file is a full
// audit trail across runs. An empty path keeps the log in memory only.
func New(path string, out io.Writer) (*Logger, error) {
	l := &Logger{out: out, now: time.Now}
	if out == nil {
		l.out = os.Stdout
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
		}
		l.file = f
	}
	return l, nil
}

// Logf appends a timestamped line to the buffer and the file, and echoes
// the message to the out writer.
func (l *Logger) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s: %s\n", l.now().Format(time.RFC3339), msg)
	l.lines = append(l.lines, line)
	if l.file != nil {
		_, _ = l.file.WriteString(line)
	}
	_, _ = fmt.Fprintln(l.out, msg)
}

// Lines returns a copy of the buffered lines in call order.
func (l *Logger) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Dump returns the full buffered log as one string.
func (l *Logger) Dump() string {
	return strings.Join(l.lines, "")
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
