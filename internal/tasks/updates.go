package tasks

import (
	"fmt"

	"github.com/desertthunder/ytgrab/internal/models"
)

// ProgressUpdate represents a progress event during a run.
//
// Used to send updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Completed tracks so far
	Total   int    // Total tracks in this run
	Message string // Human-readable message for display
	Data    any    // [models.TrackResult] or [Omission] for track phases
}

// Operation phase enumeration
type Phase int

const (
	ProcessStart Phase = iota
	TrackDone
	TrackOmitted
)

func (p Phase) String() string {
	switch p {
	case ProcessStart:
		return "process_start"
	case TrackDone:
		return "track_done"
	case TrackOmitted:
		return "track_omitted"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
//
// Updates are dropped when the channel is full.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func processingStartedUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Processing %d tracks with %d workers...", total, workers),
	}
}

func trackDoneUpdate(step, total int, r models.TrackResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, r.TrackName, r.Status),
		Data:    r,
	}
}

func trackOmittedUpdate(step, total int, o Omission) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackOmitted,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, o.Track.Title, o.Err),
		Data:    o,
	}
}
