package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSanitizeFilename(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain title", in: "Song A", want: "Song A"},
		{name: "slashes", in: "AC/DC Live\\Mix", want: "AC_DC Live_Mix"},
		{name: "surrounding whitespace", in: "  Song  ", want: "Song"},
		{name: "empty", in: "", want: "untitled"},
		{name: "dot dot", in: "..", want: "untitled"},
		{name: "CJK is kept", in: "別の歌", want: "別の歌"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tc := map[int]string{0: "0:00", 5: "0:05", 180: "3:00", 3725: "62:05", -4: "0:00"}
	for in, want := range tc {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.DebugLevel)

	child := WithLogger(logger, "track", "Song A")
	child.Debug("resolving")

	out := buf.String()
	if !strings.Contains(out, "resolving") || !strings.Contains(out, "track=") {
		t.Errorf("expected child logger fields in output, got %q", out)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string length 36, got %d", len(a))
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tc := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/music/history.db", filepath.Join(home, "music", "history.db")},
		{"/abs/path", "/abs/path"},
		{"relative/~", "relative/~"},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultOutputDir(t *testing.T) {
	if got := DefaultOutputDir("/home/u", "Mix/Tape"); got != "/home/u/Downloads/Mix_Tape" {
		t.Errorf("unexpected output dir %s", got)
	}
}
