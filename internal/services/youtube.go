// YouTube Music API [SearchProvider] implementation
//
// Communicates with the FastAPI proxy server running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultYTBaseURL  string = "http://localhost:8080"
	ytMusicWatchURL   string = "https://music.youtube.com/watch?v="
	defaultSearchSize int    = 10
)

// YouTubeImage represents an image/thumbnail from YouTube Music.
type YouTubeImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeSong represents a song search result from YouTube Music.
type YouTubeSong struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Duration    string          `json:"duration"`         // m:ss
	DurationSec *int            `json:"duration_seconds"` // Duration in seconds
	Thumbnails  []YouTubeImage  `json:"thumbnails"`
}

// YouTubeService implements [SearchProvider] for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	return &YouTubeService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// WithRateLimit throttles searches to rps requests per second. A non-positive rps disables throttling.
func (y *YouTubeService) WithRateLimit(rps float64) *YouTubeService {
	if rps > 0 {
		y.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	} else {
		y.limiter = nil
	}
	return y
}

// WithHTTPClient replaces the HTTP client used for proxy requests.
func (y *YouTubeService) WithHTTPClient(c *http.Client) *YouTubeService {
	if c != nil {
		y.httpClient = c
	}
	return y
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// WatchURL builds the playable URL for a video id, or "" when id is empty.
func WatchURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return ytMusicWatchURL + videoID
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if y.limiter != nil {
		if err := y.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search queries the catalog for songs matching query.
//
// Calls GET /api/search?q={query}&filter=songs&limit={limit} on the proxy and trims the
// response to limit results, since the proxy may return more than requested.
func (y *YouTubeService) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = defaultSearchSize
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("filter", "songs")
	params.Set("limit", strconv.Itoa(limit))

	var songs []YouTubeSong
	if err := y.doRequest(ctx, http.MethodGet, "/api/search?"+params.Encode(), &songs); err != nil {
		return nil, err
	}

	if len(songs) > limit {
		songs = songs[:limit]
	}

	candidates := make([]models.Candidate, len(songs))
	for i, s := range songs {
		candidates[i] = s.toCandidate()
	}
	return candidates, nil
}

func (s YouTubeSong) toCandidate() models.Candidate {
	c := models.Candidate{
		Title:      s.Title,
		ExternalID: s.VideoID,
		Artists:    make([]string, 0, len(s.Artists)),
		Thumbnails: make([]models.Thumbnail, 0, len(s.Thumbnails)),
	}

	for _, a := range s.Artists {
		c.Artists = append(c.Artists, a.Name)
	}
	for _, img := range s.Thumbnails {
		c.Thumbnails = append(c.Thumbnails, models.Thumbnail{URL: img.URL, Width: img.Width, Height: img.Height})
	}

	if s.DurationSec != nil {
		c.Duration = *s.DurationSec
	} else {
		c.Duration = parseClock(s.Duration)
	}

	return c
}

// parseClock converts "m:ss" or "h:mm:ss" to seconds, returning 0 when s is malformed.
func parseClock(s string) int {
	if s == "" {
		return 0
	}
	total := 0
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}
