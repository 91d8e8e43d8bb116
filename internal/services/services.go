// package services defines the provider interfaces used by the grab pipeline
//
// Spotify (playlist source), YouTube Music (search, via proxy), yt-dlp (download), ID3 (tags)
package services

import (
	"context"

	"github.com/desertthunder/ytgrab/internal/models"
)

// PlaylistSource provides the tracks of a source playlist.
type PlaylistSource interface {
	// Playlist retrieves name, owner and size of a playlist.
	Playlist(ctx context.Context, playlistID string) (*models.PlaylistInfo, error)

	// Tracks retrieves every track of a playlist in playlist order.
	Tracks(ctx context.Context, playlistID string) ([]models.TrackRequest, error)
}

// SearchProvider searches the external catalog.
type SearchProvider interface {
	// Search returns up to limit song candidates for query, in catalog order.
	// An empty result is not an error.
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)
}

// DownloadProvider retrieves audio to disk.
type DownloadProvider interface {
	// Filename resolves the path, without extension, the provider will write for url inside outputDir.
	Filename(ctx context.Context, url, outputDir string) (string, error)

	// Fetch downloads url into outputDir and transcodes it to format.
	Fetch(ctx context.Context, url, format, outputDir string) error
}

// Tags is the metadata written to a downloaded file.
type Tags struct {
	Title     string
	Artist    string
	Album     string
	CoverPath string // JPEG file embedded as front cover art
}

// TagWriter persists embedded metadata.
type TagWriter interface {
	WriteTags(path string, tags Tags) error
}
