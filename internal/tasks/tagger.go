package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/services"
	"github.com/desertthunder/ytgrab/internal/shared"
)

// TagsSupported reports whether files of format get embedded tags. Only mp3 (ID3) is tagged.
func TagsSupported(format string) bool {
	return format == "mp3"
}

// Tagger writes title, artist, album and cover art to a downloaded file.
type Tagger struct {
	writer  services.TagWriter
	client  *http.Client
	tempDir string
}

// NewTagger creates a Tagger. A nil client uses [services.DownloadImage]'s default client.
func NewTagger(w services.TagWriter, client *http.Client) *Tagger {
	return &Tagger{writer: w, client: client}
}

// WithTempDir sets where the cover is staged. Empty uses [os.TempDir].
func (t *Tagger) WithTempDir(dir string) *Tagger {
	t.tempDir = dir
	return t
}

// Tag fetches coverURL into a temporary file and writes the track's tags to path.
//
// The temporary cover is removed on every path once created.
func (t *Tagger) Tag(ctx context.Context, path string, track models.TrackRequest, coverURL string) error {
	if coverURL == "" {
		return shared.ErrNoThumbnail
	}

	cover, err := os.CreateTemp(t.tempDir, "ytgrab-cover-*.jpg")
	if err != nil {
		return fmt.Errorf("failed to create cover file: %w", err)
	}
	defer os.Remove(cover.Name())

	data, err := services.DownloadImage(ctx, t.client, coverURL)
	if err != nil {
		cover.Close()
		return err
	}
	if _, err := cover.Write(data); err != nil {
		cover.Close()
		return fmt.Errorf("failed to write cover file: %w", err)
	}
	if err := cover.Close(); err != nil {
		return fmt.Errorf("failed to close cover file: %w", err)
	}

	return t.writer.WriteTags(path, services.Tags{
		Title:     track.Title,
		Artist:    track.Artist,
		Album:     track.Album,
		CoverPath: cover.Name(),
	})
}
