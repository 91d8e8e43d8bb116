package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestErrorLog(t *testing.T) {
	t.Run("disabled log never creates the file", func(t *testing.T) {
		dir := t.TempDir()
		errLog := NewErrorLog(dir, false)
		errLog.Printf("boom %d", 1)

		if _, err := os.Stat(filepath.Join(dir, ErrorLogName)); !os.IsNotExist(err) {
			t.Error("expected no error.log for a disabled log")
		}
		if errLog.Enabled() {
			t.Error("expected Enabled() to be false")
		}
	})

	t.Run("entries are single lines", func(t *testing.T) {
		dir := t.TempDir()
		errLog := NewErrorLog(dir, true)
		defer errLog.Close()

		errLog.Printf("Download error for %s: %v", "Song A", "line one\nline two")
		errLog.Close()

		content, err := os.ReadFile(errLog.Path())
		if err != nil {
			t.Fatalf("failed to read error log: %v", err)
		}
		lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d: %q", len(lines), content)
		}
		if !strings.Contains(lines[0], "line one | line two") {
			t.Errorf("expected flattened detail, got %q", lines[0])
		}
	})

	t.Run("appends to an existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ErrorLogName)
		os.WriteFile(path, []byte("previous\n"), 0644)

		errLog := NewErrorLog(dir, true)
		errLog.Printf("next")
		errLog.Close()

		content, _ := os.ReadFile(path)
		if string(content) != "previous\nnext\n" {
			t.Errorf("expected appended content, got %q", content)
		}
	})

	t.Run("concurrent writers do not interleave", func(t *testing.T) {
		dir := t.TempDir()
		errLog := NewErrorLog(dir, true)

		const writers, perWriter = 8, 50
		var wg sync.WaitGroup
		for w := range writers {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := range perWriter {
					errLog.Printf("worker=%d entry=%d %s", w, i, strings.Repeat("x", 200))
				}
			}(w)
		}
		wg.Wait()
		errLog.Close()

		if errLog.Count() != writers*perWriter {
			t.Errorf("expected %d entries, got %d", writers*perWriter, errLog.Count())
		}

		content, _ := os.ReadFile(errLog.Path())
		lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
		if len(lines) != writers*perWriter {
			t.Fatalf("expected %d lines, got %d", writers*perWriter, len(lines))
		}
		for _, line := range lines {
			var w, i int
			var rest string
			if _, err := fmt.Sscanf(line, "worker=%d entry=%d %s", &w, &i, &rest); err != nil || len(rest) != 200 {
				t.Fatalf("corrupted line: %q", line)
			}
		}
	})
}
