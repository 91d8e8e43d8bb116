// package models defines the data model for the playlist grabber
package models

import "strings"

// TrackRequest is one entry of the source playlist.
type TrackRequest struct {
	Title    string // Track title as listed in the source playlist
	Artist   string // Primary (first) artist
	Duration int    // Duration in seconds
	Album    string // Album name, may be empty
}

// PlaylistInfo describes the source playlist.
type PlaylistInfo struct {
	ID         string
	Name       string
	Owner      string
	TrackCount int
}

// Thumbnail is a cover image reference returned by the catalog.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// Candidate is a single catalog search result.
type Candidate struct {
	Title      string
	Artists    []string    // Artist names in catalog order
	Duration   int         // Duration in seconds
	ExternalID string      // Catalog identifier (videoId)
	Thumbnails []Thumbnail // Lowest to highest quality
	SourceURL  string      // Direct source URL, empty when the catalog gives none
}

// BestThumbnail returns the highest quality thumbnail URL, or "" when there are none.
func (c Candidate) BestThumbnail() string {
	if len(c.Thumbnails) == 0 {
		return ""
	}
	return c.Thumbnails[len(c.Thumbnails)-1].URL
}

// HasArtist reports whether name matches one of the candidate's artists, ignoring case.
func (c Candidate) HasArtist(name string) bool {
	want := strings.ToLower(name)
	for _, a := range c.Artists {
		if strings.ToLower(a) == want {
			return true
		}
	}
	return false
}

// StatusCode labels a resolution outcome.
type StatusCode string

const (
	StatusOK                 StatusCode = "OK"
	StatusTitleMismatch      StatusCode = "TITLE_MISMATCH"
	StatusAuthorMismatch     StatusCode = "AUTHOR_MISMATCH"
	StatusDurationMismatch   StatusCode = "DURATION_MISMATCH"
	StatusTitleOmittedScript StatusCode = "TITLE_OMITTED_SCRIPT"
	StatusMetadataError      StatusCode = "METADATA_ERROR"
	StatusNotFound           StatusCode = "NOT_FOUND"
)

// StatusCodes lists every code in legend order.
var StatusCodes = []StatusCode{
	StatusOK,
	StatusTitleMismatch,
	StatusAuthorMismatch,
	StatusDurationMismatch,
	StatusTitleOmittedScript,
	StatusMetadataError,
	StatusNotFound,
}

// Description returns the legend text for the code.
func (s StatusCode) Description() string {
	switch s {
	case StatusOK:
		return "Match OK"
	case StatusTitleMismatch:
		return "Title does not match"
	case StatusAuthorMismatch:
		return "Author does not match"
	case StatusDurationMismatch:
		return "Duration differs (more than 10s difference)"
	case StatusTitleOmittedScript:
		return "Title omitted due to Chinese, Japanese, or Korean characters"
	case StatusMetadataError:
		return "Metadata error (cover or tags)"
	case StatusNotFound:
		return "Song not found"
	default:
		return ""
	}
}

// StatusSeparator joins codes when a [Status] is rendered as text.
const StatusSeparator = "; "

// Status is an ordered set of [StatusCode] values.
//
// Codes keep their first insertion order and duplicates are dropped.
// [StatusOK] is never stored: it is implied by an empty set, so it can not
// appear next to another code.
type Status struct {
	codes []StatusCode
}

// NewStatus builds a Status from codes, dropping duplicates.
func NewStatus(codes ...StatusCode) Status {
	var s Status
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

// Add appends code unless it is already present or is [StatusOK].
func (s *Status) Add(code StatusCode) {
	if code == StatusOK || s.Has(code) {
		return
	}
	s.codes = append(s.codes, code)
}

// Has reports whether code is in the set.
func (s Status) Has(code StatusCode) bool {
	if code == StatusOK {
		return len(s.codes) == 0
	}
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Codes returns a copy of the codes in insertion order, or [StatusOK] alone for an empty set.
func (s Status) Codes() []StatusCode {
	if len(s.codes) == 0 {
		return []StatusCode{StatusOK}
	}
	out := make([]StatusCode, len(s.codes))
	copy(out, s.codes)
	return out
}

// OK reports whether no problem code is present.
func (s Status) OK() bool { return len(s.codes) == 0 }

// String joins the codes with [StatusSeparator]; an empty set renders as OK.
func (s Status) String() string {
	if len(s.codes) == 0 {
		return string(StatusOK)
	}
	parts := make([]string, len(s.codes))
	for i, c := range s.codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, StatusSeparator)
}

// TrackResult is the report row for one [TrackRequest].
type TrackResult struct {
	TrackName string
	Status    string // Rendered [Status]
	URL       string // Playable URL, may be empty
	FilePath  string // Audio file on disk, empty when nothing was downloaded
}

// NotFound builds the result for a track that could not be resolved or downloaded.
func NotFound(trackName, url string) TrackResult {
	return TrackResult{
		TrackName: trackName,
		Status:    string(StatusNotFound),
		URL:       url,
	}
}
