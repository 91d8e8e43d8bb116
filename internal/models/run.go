package models

import "time"

// Run is a stored grab invocation.
type Run struct {
	ID           string
	PlaylistID   string
	PlaylistName string
	OutputDir    string
	Format       string
	TotalTracks  int
	Omitted      int
	StartedAt    time.Time
	FinishedAt   *time.Time // nil while the run is in progress or was interrupted
}

// Finished reports whether the run completed.
func (r Run) Finished() bool { return r.FinishedAt != nil }

// Elapsed returns the run duration, or zero for unfinished runs.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
