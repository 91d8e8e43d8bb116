package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/services"
	"github.com/desertthunder/ytgrab/internal/shared"
)

// DownloadAttempts is the number of tries before a download is reported as failed.
// Attempts follow each other without delay.
const DownloadAttempts = 3

// Downloader retrieves audio through a [services.DownloadProvider] and moves it to a canonical path.
//
// Canonical paths are "{outputDir}/{title}.{format}". When another track of the same run already
// claimed that path, the external id is appended ("{title} [{id}].{format}"), then a counter.
type Downloader struct {
	provider  services.DownloadProvider
	format    string
	outputDir string
	errs      ErrorRecorder
	logger    *log.Logger

	mu      sync.Mutex
	claimed map[string]bool
}

// NewDownloader creates a Downloader writing format files into outputDir.
func NewDownloader(p services.DownloadProvider, format, outputDir string, errs ErrorRecorder, logger *log.Logger) *Downloader {
	return &Downloader{
		provider:  p,
		format:    format,
		outputDir: outputDir,
		errs:      orNop(errs),
		logger:    orDiscard(logger),
		claimed:   make(map[string]bool),
	}
}

// Format returns the target audio format.
func (d *Downloader) Format() string { return d.format }

// Fetch downloads url and returns the path of the resulting file.
//
// Each failed attempt is logged. After [DownloadAttempts] failures the error wraps
// [shared.ErrDownloadFailed]. A missing provider file after a successful download is not an
// error: the rename is skipped and the provider's path is returned.
func (d *Downloader) Fetch(ctx context.Context, url, title, externalID string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= DownloadAttempts; attempt++ {
		path, err := d.attempt(ctx, url, title, externalID)
		if err == nil {
			return path, nil
		}

		lastErr = err
		d.logger.Warn("download attempt failed", "title", title, "attempt", attempt, "err", err)
		d.errs.Printf("Error downloading %s (attempt %d/%d): %v", title, attempt, DownloadAttempts, err)

		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %s: %v", shared.ErrDownloadFailed, url, lastErr)
}

func (d *Downloader) attempt(ctx context.Context, url, title, externalID string) (string, error) {
	name, err := d.provider.Filename(ctx, url, d.outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve filename: %w", err)
	}

	if err := d.provider.Fetch(ctx, url, d.format, d.outputDir); err != nil {
		return "", err
	}

	return d.place(name+"."+d.format, title, externalID), nil
}

// place renames src to its canonical path, keeping src when the rename can not happen.
func (d *Downloader) place(src, title, externalID string) string {
	target := d.claim(title, externalID)
	if src == target {
		return target
	}

	if _, err := os.Stat(src); err != nil {
		d.release(target)
		d.logger.Warn("downloaded file not found, skipping rename", "title", title, "path", src)
		d.errs.Printf("Error renaming %s: downloaded file %s not found", title, src)
		return src
	}

	if err := os.Rename(src, target); err != nil {
		d.release(target)
		d.logger.Warn("rename failed", "title", title, "err", err)
		d.errs.Printf("Error renaming %s: %v", title, err)
		return src
	}

	return target
}

func (d *Downloader) claim(title, externalID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	base := shared.SanitizeFilename(title)
	names := []string{base}
	if externalID != "" {
		names = append(names, fmt.Sprintf("%s [%s]", base, shared.SanitizeFilename(externalID)))
	}

	for _, n := range names {
		if p := d.path(n); !d.claimed[p] {
			d.claimed[p] = true
			return p
		}
	}

	for i := 2; ; i++ {
		if p := d.path(fmt.Sprintf("%s (%d)", base, i)); !d.claimed[p] {
			d.claimed[p] = true
			return p
		}
	}
}

func (d *Downloader) release(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.claimed, path)
}

func (d *Downloader) path(name string) string {
	return filepath.Join(d.outputDir, name+"."+d.format)
}
