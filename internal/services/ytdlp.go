// yt-dlp [DownloadProvider] implementation
package services

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	defaultYTDLPBin     = "yt-dlp"
	defaultAudioQuality = "320K"
	outputTemplate      = "%(title)s [%(id)s].%(ext)s"
)

// CommandRunner runs name with args and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// YTDLP implements [DownloadProvider] by shelling out to the yt-dlp binary.
type YTDLP struct {
	bin     string
	quality string
	run     CommandRunner
}

// NewYTDLP creates a yt-dlp provider. Empty values fall back to "yt-dlp" on PATH and 320K audio.
func NewYTDLP(bin, quality string) *YTDLP {
	if bin == "" {
		bin = defaultYTDLPBin
	}
	if quality == "" {
		quality = defaultAudioQuality
	}
	return &YTDLP{bin: bin, quality: quality, run: execRunner}
}

// WithRunner replaces the command runner. Tests use it to avoid spawning processes.
func (y *YTDLP) WithRunner(r CommandRunner) *YTDLP {
	if r != nil {
		y.run = r
	}
	return y
}

// Name returns the provider name.
func (y *YTDLP) Name() string {
	return "yt-dlp"
}

// Filename asks yt-dlp which file it would write for url and returns it without the extension.
func (y *YTDLP) Filename(ctx context.Context, url, outputDir string) (string, error) {
	args := []string{
		"--print", "filename",
		"--skip-download",
		"--no-warnings",
		"-o", filepath.Join(outputDir, outputTemplate),
		url,
	}

	out, err := y.run(ctx, y.bin, args...)
	if err != nil {
		return "", err
	}

	name := firstLine(string(out))
	if name == "" {
		return "", fmt.Errorf("yt-dlp printed no filename for %s", url)
	}
	return strings.TrimSuffix(name, filepath.Ext(name)), nil
}

// Fetch downloads the best audio stream of url into outputDir and converts it to format.
func (y *YTDLP) Fetch(ctx context.Context, url, format, outputDir string) error {
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", format,
		"--audio-quality", y.quality,
		"-q", "--no-warnings",
		"-o", filepath.Join(outputDir, outputTemplate),
		url,
	}

	_, err := y.run(ctx, y.bin, args...)
	return err
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(output))
		if trimmed == "" {
			return output, err
		}
		return output, fmt.Errorf("%v: %s", err, trimmed)
	}
	return output, nil
}

func firstLine(s string) string {
	for line := range strings.Lines(s) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
