// Spotify API implementation of [PlaylistSource]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
	spotifyPageSize = 100
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
}

// Owner is the user owning a playlist.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a Spotify playlist without its items.
type SpotifyPlaylist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Owner  Owner  `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// SpotifyPlaylistItem is one entry of a playlist page. Track is nil for removed or local items.
type SpotifyPlaylistItem struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPlaylistPage is a page of playlist items.
type SpotifyPlaylistPage struct {
	Items  []SpotifyPlaylistItem `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
	Next   *string               `json:"next"`
}

// SpotifyOpts configures a [SpotifyService]. Empty URLs use the public Spotify endpoints.
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client // Base client used for token and API requests
}

// SpotifyService implements [PlaylistSource] with the client-credentials flow.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with app credentials.
func NewSpotifyService(ctx context.Context, opts SpotifyOpts) (*SpotifyService, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	config := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}

	return &SpotifyService{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: config.Client(ctx),
	}, nil
}

// Name returns the service name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// ParsePlaylistID extracts the playlist id from a playlist URL, URI or bare id.
//
// "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc" -> "37i9dQZF1DXcBWIGoYBM5M"
func ParsePlaylistID(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndexAny(ref, "/:"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.IndexByte(ref, '?'); i >= 0 {
		ref = ref[:i]
	}
	return ref
}

// doRequest performs an authenticated GET to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrPlaylistNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Playlist retrieves playlist metadata.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*models.PlaylistInfo, error) {
	var pl SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s?fields=id,name,owner(id,display_name),tracks(total)", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, endpoint, &pl); err != nil {
		return nil, err
	}

	return &models.PlaylistInfo{
		ID:         pl.ID,
		Name:       pl.Name,
		Owner:      pl.Owner.DisplayName,
		TrackCount: pl.Tracks.Total,
	}, nil
}

// Tracks retrieves every track of a playlist, paging until the reported total is reached.
//
// Items without a track (removed or unavailable) are skipped.
func (s *SpotifyService) Tracks(ctx context.Context, playlistID string) ([]models.TrackRequest, error) {
	var tracks []models.TrackRequest

	for offset := 0; ; {
		params := url.Values{}
		params.Set("offset", strconv.Itoa(offset))
		params.Set("limit", strconv.Itoa(spotifyPageSize))

		var page SpotifyPlaylistPage
		endpoint := fmt.Sprintf("/playlists/%s/tracks?%s", url.PathEscape(playlistID), params.Encode())
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch tracks at offset %d: %w", offset, err)
		}

		for _, item := range page.Items {
			if item.Track != nil {
				tracks = append(tracks, item.Track.toRequest())
			}
		}

		offset += spotifyPageSize
		if len(page.Items) == 0 || offset >= page.Total {
			break
		}
	}

	return tracks, nil
}

func (t SpotifyTrack) toRequest() models.TrackRequest {
	req := models.TrackRequest{
		Title:    t.Name,
		Duration: t.DurationMS / 1000,
		Album:    t.Album.Name,
	}
	if len(t.Artists) > 0 {
		req.Artist = t.Artists[0].Name
	}
	return req
}
