package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/matching"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/services"
	"github.com/desertthunder/ytgrab/internal/shared"
)

// DefaultSearchLimit is the number of candidates requested per track.
const DefaultSearchLimit = 10

// TrackProcessor resolves a single track. [Processor] implements it.
type TrackProcessor interface {
	Process(ctx context.Context, track models.TrackRequest) models.TrackResult
}

// ProcessorOpts wires a [Processor]. Tagger may be nil to disable tagging.
type ProcessorOpts struct {
	Search      services.SearchProvider
	Downloader  *Downloader
	Tagger      *Tagger
	SearchLimit int
	ErrorLog    ErrorRecorder
	Logger      *log.Logger
}

// Processor composes search, matching, download and tagging for one track.
type Processor struct {
	search     services.SearchProvider
	downloader *Downloader
	tagger     *Tagger
	limit      int
	errs       ErrorRecorder
	logger     *log.Logger
}

// NewProcessor creates a Processor from opts.
func NewProcessor(opts ProcessorOpts) *Processor {
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultSearchLimit
	}
	return &Processor{
		search:     opts.Search,
		downloader: opts.Downloader,
		tagger:     opts.Tagger,
		limit:      opts.SearchLimit,
		errs:       orNop(opts.ErrorLog),
		logger:     orDiscard(opts.Logger),
	}
}

// Process returns exactly one result for track. Failures are reported through the status, never as errors.
//
//  1. search the catalog by title; no candidates gives NOT_FOUND with an empty URL
//  2. pick and classify the best candidate
//  3. download; failure gives NOT_FOUND with the resolved URL, dropping the classification
//  4. tag when the format supports it; failure adds METADATA_ERROR
func (p *Processor) Process(ctx context.Context, track models.TrackRequest) models.TrackResult {
	logger := p.logger.With("track", track.Title)

	best, err := p.bestCandidate(ctx, track)
	if errors.Is(err, shared.ErrNoCandidates) {
		logger.Debug("no candidates")
		return models.NotFound(track.Title, "")
	}
	if err != nil {
		logger.Warn("search failed", "err", err)
		p.errs.Printf("Error searching %s: %v", track.Title, err)
		return models.NotFound(track.Title, "")
	}

	status := matching.Classify(best, track.Title, track.Artist, track.Duration)

	url := services.WatchURL(best.ExternalID)
	if url == "" {
		url = best.SourceURL
	}
	if url == "" {
		logger.Warn("best match has no playable source", "title", best.Title)
		p.errs.Printf("Error resolving %s: match %q has no id or source URL", track.Title, best.Title)
		return models.NotFound(track.Title, "")
	}

	path, err := p.downloader.Fetch(ctx, url, best.Title, best.ExternalID)
	if err != nil {
		logger.Error("download failed", "url", url, "err", err)
		p.errs.Printf("Error downloading %s: %v", track.Title, err)
		return models.NotFound(track.Title, url)
	}

	if p.tagger != nil && TagsSupported(p.downloader.Format()) {
		if err := p.tagger.Tag(ctx, path, track, best.BestThumbnail()); err != nil {
			logger.Warn("tagging failed", "path", path, "err", err)
			p.errs.Printf("Error adding metadata to %s: %v", track.Title, err)
			status.Add(models.StatusMetadataError)
		}
	}

	logger.Debug("track done", "status", status.String(), "path", path)
	return models.TrackResult{
		TrackName: track.Title,
		Status:    status.String(),
		URL:       url,
		FilePath:  path,
	}
}

// bestCandidate searches by title and returns the lowest scoring result.
// An empty result set gives [shared.ErrNoCandidates].
func (p *Processor) bestCandidate(ctx context.Context, track models.TrackRequest) (models.Candidate, error) {
	candidates, err := p.search.Search(ctx, track.Title, p.limit)
	if err != nil {
		return models.Candidate{}, err
	}

	best, ok := matching.BestMatch(candidates, track.Artist, track.Duration)
	if !ok {
		return models.Candidate{}, fmt.Errorf("%w: %s", shared.ErrNoCandidates, track.Title)
	}
	return best, nil
}
