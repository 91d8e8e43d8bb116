package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrorLogName is the file name of the error log inside the output directory.
const ErrorLogName = "error.log"

// ErrorLog appends newline-delimited entries to {dir}/error.log.
//
// Writes from concurrent workers are serialized. The file is only created on the first
// entry, and a disabled log drops every entry.
type ErrorLog struct {
	mu      sync.Mutex
	path    string
	enabled bool
	file    *os.File
	count   int
}

// NewErrorLog creates an error log for dir. Nothing touches the disk until [ErrorLog.Printf].
func NewErrorLog(dir string, enabled bool) *ErrorLog {
	return &ErrorLog{path: filepath.Join(dir, ErrorLogName), enabled: enabled}
}

// Printf formats and appends one entry. Embedded newlines are flattened so each entry stays on one line.
func (e *ErrorLog) Printf(format string, args ...any) {
	if e == nil || !e.enabled {
		return
	}
	line := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " | ")
	_, _ = e.Write([]byte(line + "\n"))
}

// Write implements [io.Writer] so a logger can target the error log directly.
func (e *ErrorLog) Write(p []byte) (int, error) {
	if e == nil || !e.enabled {
		return len(p), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		f, err := os.OpenFile(e.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to open error log: %w", err)
		}
		e.file = f
	}

	n, err := e.file.Write(p)
	if err == nil {
		e.count++
	}
	return n, err
}

// Path returns the location of the log file.
func (e *ErrorLog) Path() string { return e.path }

// Enabled reports whether entries are written.
func (e *ErrorLog) Enabled() bool { return e != nil && e.enabled }

// Count returns the number of entries written so far.
func (e *ErrorLog) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Close closes the underlying file if it was opened.
func (e *ErrorLog) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}
