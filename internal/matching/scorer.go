// package matching ranks catalog search results against a source track and labels the chosen match.
package matching

import (
	"github.com/desertthunder/ytgrab/internal/models"
)

// AuthorPenalty is added to a candidate's score when the wanted artist is not among its artists.
const AuthorPenalty = 10

// Score ranks candidate against the wanted artist and duration. Lower is better.
//
// The duration distance in seconds dominates; a missing artist costs [AuthorPenalty].
func Score(c models.Candidate, artist string, duration int) int {
	score := abs(c.Duration - duration)
	if !c.HasArtist(artist) {
		score += AuthorPenalty
	}
	return score
}

// BestMatch returns the candidate with the lowest [Score].
//
// Ties keep the earliest candidate. ok is false when candidates is empty.
func BestMatch(candidates []models.Candidate, artist string, duration int) (best models.Candidate, ok bool) {
	if len(candidates) == 0 {
		return models.Candidate{}, false
	}

	bestIdx, bestScore := 0, Score(candidates[0], artist, duration)
	for i := 1; i < len(candidates); i++ {
		if s := Score(candidates[i], artist, duration); s < bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return candidates[bestIdx], true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
