package models

import "testing"

func TestStatus(t *testing.T) {
	t.Run("empty set renders OK", func(t *testing.T) {
		var s Status
		if got := s.String(); got != "OK" {
			t.Errorf("expected OK, got %s", got)
		}
		if !s.OK() || !s.Has(StatusOK) {
			t.Error("expected empty status to report OK")
		}
	})

	t.Run("keeps first insertion order and drops duplicates", func(t *testing.T) {
		s := NewStatus(StatusDurationMismatch, StatusTitleMismatch, StatusDurationMismatch)
		s.Add(StatusMetadataError)
		s.Add(StatusTitleMismatch)

		want := "DURATION_MISMATCH; TITLE_MISMATCH; METADATA_ERROR"
		if got := s.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("OK never sits next to another code", func(t *testing.T) {
		s := NewStatus(StatusOK)
		s.Add(StatusMetadataError)
		s.Add(StatusOK)

		if s.Has(StatusOK) {
			t.Error("expected OK to be absent once another code is present")
		}
		if got := s.String(); got != "METADATA_ERROR" {
			t.Errorf("expected METADATA_ERROR, got %s", got)
		}
	})

	t.Run("Codes returns a copy", func(t *testing.T) {
		s := NewStatus(StatusAuthorMismatch)
		codes := s.Codes()
		codes[0] = StatusNotFound
		if !s.Has(StatusAuthorMismatch) {
			t.Error("mutating Codes() result changed the set")
		}
	})
}

func TestCandidate(t *testing.T) {
	c := Candidate{
		Title:   "Song",
		Artists: []string{"Band X", "Guest"},
		Thumbnails: []Thumbnail{
			{URL: "https://img/small.jpg", Width: 60},
			{URL: "https://img/large.jpg", Width: 544},
		},
	}

	t.Run("BestThumbnail picks the last entry", func(t *testing.T) {
		if got := c.BestThumbnail(); got != "https://img/large.jpg" {
			t.Errorf("expected large thumbnail, got %s", got)
		}
		if got := (Candidate{}).BestThumbnail(); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})

	t.Run("HasArtist ignores case", func(t *testing.T) {
		if !c.HasArtist("band x") {
			t.Error("expected case-insensitive artist match")
		}
		if c.HasArtist("Band") {
			t.Error("expected partial names not to match")
		}
	})
}

func TestStatusCodeDescription(t *testing.T) {
	for _, code := range StatusCodes {
		if code.Description() == "" {
			t.Errorf("missing description for %s", code)
		}
	}
}
