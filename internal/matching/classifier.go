package matching

import (
	"strings"

	"github.com/desertthunder/ytgrab/internal/models"
)

// DurationTolerance is the largest duration difference, in seconds, that still counts as a match.
const DurationTolerance = 10

// cjkRanges are the Hiragana/Katakana, CJK Unified (incl. Extension A) and Hangul Syllables blocks.
var cjkRanges = [][2]rune{
	{0x3040, 0x30FF},
	{0x3400, 0x4DBF},
	{0x4E00, 0x9FFF},
	{0xAC00, 0xD7AF},
}

// HasCJK reports whether s contains a character from one of the CJK blocks.
func HasCJK(s string) bool {
	for _, r := range s {
		for _, rg := range cjkRanges {
			if r >= rg[0] && r <= rg[1] {
				return true
			}
		}
	}
	return false
}

// Classify labels the best match against the wanted title, artist and duration.
//
// Rules are evaluated independently, except that the title comparison is skipped when the
// matched title carries CJK characters. An empty result renders as OK.
func Classify(best models.Candidate, title, artist string, duration int) models.Status {
	var status models.Status

	if HasCJK(best.Title) {
		status.Add(models.StatusTitleOmittedScript)
	} else if strings.ToLower(best.Title) != strings.ToLower(title) {
		status.Add(models.StatusTitleMismatch)
	}

	if !best.HasArtist(artist) {
		status.Add(models.StatusAuthorMismatch)
	}

	if abs(best.Duration-duration) > DurationTolerance {
		status.Add(models.StatusDurationMismatch)
	}

	return status
}
