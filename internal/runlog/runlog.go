// Package runlog writes the per-run log: one timestamped file per run,
// mirrored to the console.
package runlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// FileLayout is the time layout of run log file names.
const FileLayout = "2006-01-02-15-04-05"

// Flags are the standard log flags used for every line.
const Flags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

// Logger writes leveled lines. Debug lines are dropped unless debug is on.
type Logger struct {
	l     *log.Logger
	debug bool
	file  *os.File
}

// New writes to w only.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{l: log.New(w, "", Flags), debug: debug}
}

// Create makes dir if absent and opens a log file named after start in it.
// Lines go to both the file and console. It returns the logger and the file
// path.
func Create(dir string, console io.Writer, debug bool, start time.Time) (*Logger, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, start.Format(FileLayout)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}

	lg := New(io.MultiWriter(console, f), debug)
	lg.file = f
	return lg, path, nil
}

// Debug reports whether debug lines are written.
func (lg *Logger) Debug() bool {
	return lg.debug
}

// Infof writes an informational line.
func (lg *Logger) Infof(format string, args ...interface{}) {
	lg.output("[INFO] ", format, args...)
}

// Errorf writes an error line.
func (lg *Logger) Errorf(format string, args ...interface{}) {
	lg.output("[ERROR] ", format, args...)
}

// Debugf writes a line only when debug is on.
func (lg *Logger) Debugf(format string, args ...interface{}) {
	if !lg.debug {
		return
	}
	lg.output("[DEBUG] ", format, args...)
}

func (lg *Logger) output(level, format string, args ...interface{}) {
	// 3 skips output and the level method, so the caller's file:line is logged.
	_ = lg.l.Output(3, level+fmt.Sprintf(format, args...))
}

// Close closes the log file, if any.
func (lg *Logger) Close() error {
	if lg.file == nil {
		return nil
	}
	return lg.file.Close()
}
