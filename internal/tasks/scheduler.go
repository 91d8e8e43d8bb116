package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 4

// Omission records a track whose unit of work did not produce a result.
type Omission struct {
	Track models.TrackRequest
	Err   error // wraps [shared.ErrTaskPanic] or the context error
}

// RunResult aggregates the outcome of a [Scheduler.Run].
//
// Every input track is accounted for exactly once, in Results or in Omitted.
type RunResult struct {
	Results []models.TrackResult // completion order
	Omitted []Omission
}

// All returns Results followed by a NOT_FOUND row for every omission.
func (r *RunResult) All() []models.TrackResult {
	all := make([]models.TrackResult, 0, len(r.Results)+len(r.Omitted))
	all = append(all, r.Results...)
	for _, o := range r.Omitted {
		all = append(all, models.NotFound(o.Track.Title, ""))
	}
	return all
}

// Total returns the number of accounted tracks.
func (r *RunResult) Total() int {
	return len(r.Results) + len(r.Omitted)
}

// Scheduler runs a [TrackProcessor] over many tracks with a fixed-size worker pool.
type Scheduler struct {
	workers int
	errs    ErrorRecorder
	logger  *log.Logger
}

// NewScheduler creates a Scheduler. A non-positive workers count uses [DefaultWorkers].
func NewScheduler(workers int, errs ErrorRecorder, logger *log.Logger) *Scheduler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Scheduler{workers: workers, errs: orNop(errs), logger: orDiscard(logger)}
}

// Workers returns the pool size.
func (s *Scheduler) Workers() int { return s.workers }

type unitOutcome struct {
	result   models.TrackResult
	omission *Omission
}

// Run processes every track and collects results as they complete.
//
// A panic inside a unit is recovered, logged and recorded as an omission; sibling units keep
// running. Once ctx is done, tracks not yet started are recorded as omissions.
func (s *Scheduler) Run(ctx context.Context, tracks []models.TrackRequest, proc TrackProcessor, progress chan<- ProgressUpdate) *RunResult {
	result := &RunResult{Results: make([]models.TrackResult, 0, len(tracks))}
	total := len(tracks)

	jobs := make(chan models.TrackRequest, total)
	outcomes := make(chan unitOutcome, total)

	var wg sync.WaitGroup
	for range min(s.workers, max(total, 1)) {
		wg.Add(1)
		go s.worker(ctx, &wg, proc, jobs, outcomes)
	}

	for _, t := range tracks {
		jobs <- t
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	sendProgress(progress, processingStartedUpdate(total, s.workers))

	completed := 0
	for out := range outcomes {
		completed++
		if out.omission != nil {
			result.Omitted = append(result.Omitted, *out.omission)
			sendProgress(progress, trackOmittedUpdate(completed, total, *out.omission))
			continue
		}
		result.Results = append(result.Results, out.result)
		sendProgress(progress, trackDoneUpdate(completed, total, out.result))
	}

	return result
}

func (s *Scheduler) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	proc TrackProcessor,
	jobs <-chan models.TrackRequest,
	outcomes chan<- unitOutcome,
) {
	defer wg.Done()

	for track := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes <- unitOutcome{omission: &Omission{Track: track, Err: err}}
			continue
		}
		outcomes <- s.runUnit(ctx, proc, track)
	}
}

func (s *Scheduler) runUnit(ctx context.Context, proc TrackProcessor, track models.TrackRequest) (out unitOutcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", shared.ErrTaskPanic, r)
			s.logger.Error("track task failed", "track", track.Title, "err", err)
			s.errs.Printf("Task failed for %s: %v", track.Title, err)
			out = unitOutcome{omission: &Omission{Track: track, Err: err}}
		}
	}()

	return unitOutcome{result: proc.Process(ctx, track)}
}
