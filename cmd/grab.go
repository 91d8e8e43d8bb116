package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/formatter"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/repositories"
	"github.com/desertthunder/ytgrab/internal/services"
	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/desertthunder/ytgrab/internal/tasks"
	"github.com/desertthunder/ytgrab/internal/ui"
	"github.com/urfave/cli/v3"
)

// Grab resolves every track of a playlist and downloads the matches.
//
//  1. Load config and apply flags
//  2. Fetch the playlist from Spotify
//  3. Prepare the output directory and error log
//  4. Run the track processor over the worker pool
//  5. Write report.txt (and results.csv), then record the run in history
func (r *Runner) Grab(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	applyGrabFlags(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	source, err := r.playlistSource(ctx, cfg)
	if err != nil {
		return err
	}

	playlistID := services.ParsePlaylistID(cmd.String("playlist"))
	if playlistID == "" {
		return fmt.Errorf("%w: playlist reference is empty", shared.ErrInvalidArgument)
	}

	r.logger.Debug("fetching playlist", "id", playlistID)
	info, err := source.Playlist(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist: %w", err)
	}
	tracks, err := source.Tracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	outputDir, err := r.outputDir(cfg, info)
	if err != nil {
		return err
	}
	if cmd.Bool("replace") {
		r.logger.Debug("removing output directory", "path", outputDir)
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", outputDir, err)
		}
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d tracks)", info.Name, len(tracks)))
	r.writePlain("Owner:  %s\n", info.Owner)
	r.writePlain("Length: %s\n", shared.FormatDuration(totalDuration(tracks)))
	r.writePlain("Format: %s\n", cfg.Download.Format)
	r.writePlain("Output: %s\n\n", outputDir)

	errLog := shared.NewErrorLog(outputDir, cfg.Download.Log)
	defer errLog.Close()

	scheduler, processor := r.pipeline(cfg, outputDir, errLog)

	history := r.startRun(cfg, &models.Run{
		PlaylistID:   info.ID,
		PlaylistName: info.Name,
		OutputDir:    outputDir,
		Format:       cfg.Download.Format,
		TotalTracks:  len(tracks),
	})
	defer history.close()

	updates := make(chan tasks.ProgressUpdate, len(tracks)+1)
	run := func(ctx context.Context) *tasks.RunResult {
		defer close(updates)
		return scheduler.Run(ctx, tracks, processor, updates)
	}

	var res *tasks.RunResult
	if cmd.Bool("plain") || !ui.IsTerminal(r.output) {
		res = ui.RunPlain(ctx, r.output, updates, run)
	} else {
		res, err = ui.RunInteractive(ctx, r.input, r.output, info.Name, len(tracks), updates, run)
		if err != nil {
			r.logger.Warn("progress view failed", "err", err)
		}
	}

	results := res.All()

	var reportPath, csvPath string
	if cfg.Download.Report {
		if reportPath, err = formatter.WriteReport(outputDir, results); err != nil {
			r.logger.Error("failed to write report", "err", err)
		}
	}
	if cmd.Bool("csv") {
		if csvPath, err = formatter.WriteCSV(outputDir, results); err != nil {
			r.logger.Error("failed to write csv", "err", err)
		}
	}

	history.finish(results, res.Total(), len(res.Omitted))

	return r.printSummary(results, len(res.Omitted), reportPath, csvPath, errLog)
}

func totalDuration(tracks []models.TrackRequest) int {
	total := 0
	for _, t := range tracks {
		total += t.Duration
	}
	return total
}

// applyGrabFlags overrides config values with flags that were set on the command line.
func applyGrabFlags(cfg *shared.Config, cmd *cli.Command) {
	if v := cmd.String("output"); v != "" {
		cfg.Download.OutputDir = v
	}
	if v := cmd.String("format"); v != "" {
		cfg.Download.Format = v
	}
	if cmd.IsSet("workers") {
		cfg.Download.Workers = int(cmd.Int("workers"))
	}
	if v := cmd.String("client-id"); v != "" {
		cfg.Credentials.Spotify.ClientID = v
	}
	if v := cmd.String("client-secret"); v != "" {
		cfg.Credentials.Spotify.ClientSecret = v
	}
	if cmd.Bool("log") {
		cfg.Download.Log = true
	}
	if cmd.Bool("no-report") {
		cfg.Download.Report = false
	}
}

func (r *Runner) playlistSource(ctx context.Context, cfg *shared.Config) (services.PlaylistSource, error) {
	if r.source != nil {
		return r.source, nil
	}
	if err := cfg.ResolveSpotifyCredentials(); err != nil {
		return nil, err
	}
	return services.NewSpotifyService(ctx, services.SpotifyOpts{
		ClientID:     cfg.Credentials.Spotify.ClientID,
		ClientSecret: cfg.Credentials.Spotify.ClientSecret,
		HTTPClient:   r.httpClient,
	})
}

// outputDir returns the configured directory, or ~/Downloads/{playlist name}.
func (r *Runner) outputDir(cfg *shared.Config, info *models.PlaylistInfo) (string, error) {
	if cfg.Download.OutputDir != "" {
		return shared.ExpandHome(cfg.Download.OutputDir)
	}

	home, err := r.homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	name := info.Name
	if name == "" {
		name = info.ID
	}
	return shared.DefaultOutputDir(home, name), nil
}

// pipeline builds the scheduler and the track processor from cfg, using injected providers when present.
func (r *Runner) pipeline(cfg *shared.Config, outputDir string, errLog *shared.ErrorLog) (*tasks.Scheduler, *tasks.Processor) {
	search := r.search
	if search == nil {
		search = services.NewYouTubeService(cfg.Credentials.YouTube.ProxyURL).
			WithHTTPClient(r.httpClient).
			WithRateLimit(cfg.Search.RateLimit)
	}

	download := r.download
	if download == nil {
		download = services.NewYTDLP(cfg.Download.YTDLPPath, cfg.Download.AudioQuality)
	}

	tags := r.tags
	if tags == nil {
		tags = services.NewID3Writer()
	}

	logger := shared.WithLogger(r.logger, "playlist", filepath.Base(outputDir))
	downloader := tasks.NewDownloader(download, cfg.Download.Format, outputDir, errLog, logger)

	processor := tasks.NewProcessor(tasks.ProcessorOpts{
		Search:      search,
		Downloader:  downloader,
		Tagger:      tasks.NewTagger(tags, r.httpClient),
		SearchLimit: cfg.Search.Limit,
		ErrorLog:    errLog,
		Logger:      logger,
	})

	return tasks.NewScheduler(cfg.Download.Workers, errLog, logger), processor
}

func (r *Runner) printSummary(results []models.TrackResult, omitted int, reportPath, csvPath string, errLog *shared.ErrorLog) error {
	var ok, issues, missing int
	for _, res := range results {
		switch res.Status {
		case string(models.StatusOK):
			ok++
		case string(models.StatusNotFound):
			missing++
		default:
			issues++
		}
	}

	style := ui.Styles()
	r.writePlainln("%s", style.Title("Summary"))
	r.writePlain("%s %d\n", style.OK("OK:        "), ok)
	r.writePlain("%s %d\n", style.Warn("Issues:    "), issues)
	r.writePlain("%s %d\n", style.Err("Not found: "), missing)
	if omitted > 0 {
		r.writePlain("%s %d\n", style.Err("Omitted:   "), omitted)
	}

	if reportPath != "" {
		r.writePlain("\nReport written to %s\n", reportPath)
	}
	if csvPath != "" {
		r.writePlain("CSV written to %s\n", csvPath)
	}

	switch {
	case !errLog.Enabled():
	case errLog.Count() > 0:
		r.writePlain("%d errors logged to %s\n", errLog.Count(), errLog.Path())
	default:
		r.writePlain("No errors were logged.\n")
	}
	return nil
}

// runRecord tracks a run in the history database. A zero record (history disabled or
// unavailable) ignores every call.
type runRecord struct {
	repo   *repositories.RunRepository
	closer func() error
	run    *models.Run
	logger *log.Logger
}

// startRun opens the history database and inserts run. Failures are logged and disable recording.
func (r *Runner) startRun(cfg *shared.Config, run *models.Run) *runRecord {
	rec := &runRecord{logger: r.logger}
	if cfg.Database.Path == "" {
		return rec
	}

	repo, closer, err := openRuns(cfg.Database.Path)
	if err != nil {
		r.logger.Warn("run history unavailable", "err", err)
		return rec
	}
	if err := repo.Create(run); err != nil {
		r.logger.Warn("failed to record run", "err", err)
		closer()
		return rec
	}

	r.logger.Debug("recording run", "id", run.ID)
	rec.repo, rec.closer, rec.run = repo, closer, run
	return rec
}

func (rec *runRecord) finish(results []models.TrackResult, total, omitted int) {
	if rec.repo == nil {
		return
	}
	if err := rec.repo.AddResults(rec.run.ID, results); err != nil {
		rec.logger.Warn("failed to record results", "err", err)
		return
	}
	if err := rec.repo.Finish(rec.run.ID, total, omitted); err != nil {
		rec.logger.Warn("failed to finish run", "err", err)
	}
}

func (rec *runRecord) close() {
	if rec.closer != nil {
		rec.closer()
	}
}

// openRuns opens the history database at path (with ~ expanded).
func openRuns(path string) (*repositories.RunRepository, func() error, error) {
	path, err := shared.ExpandHome(path)
	if err != nil {
		return nil, nil, err
	}
	db, err := shared.OpenHistory(path)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewRunRepository(db), db.Close, nil
}
