package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ytgrab/internal/formatter"
	"github.com/desertthunder/ytgrab/internal/repositories"
	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/urfave/cli/v3"
)

// historyRepo opens the run history named by --db, falling back to the [database] path.
func (r *Runner) historyRepo(cmd *cli.Command) (*repositories.RunRepository, func() error, error) {
	path := cmd.String("db")
	if path == "" {
		cfg, err := r.loadConfig(cmd)
		if err != nil {
			return nil, nil, err
		}
		path = cfg.Database.Path
	}
	if path == "" {
		return nil, nil, fmt.Errorf("%w: run history is disabled (set [database] path or --db)", shared.ErrMissingConfig)
	}
	return openRuns(path)
}

// HistoryList prints the most recent runs.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, closer, err := r.historyRepo(cmd)
	if err != nil {
		return err
	}
	defer closer()

	limit := int(cmd.Int("limit"))
	if limit < 1 {
		return fmt.Errorf("%w: limit must be at least 1, got %d", shared.ErrInvalidFlag, limit)
	}

	runs, err := repo.List(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return r.writePlain("No runs recorded.\n")
	}

	return formatter.RenderRuns(r.output, runs)
}

// HistoryShow prints a run and its per-track results. The id may be a unique prefix.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("run-id")
	if id == "" {
		return fmt.Errorf("%w: run-id", shared.ErrMissingArgument)
	}

	repo, closer, err := r.historyRepo(cmd)
	if err != nil {
		return err
	}
	defer closer()

	run, err := repo.Get(id)
	if err != nil {
		return err
	}
	results, err := repo.Results(run.ID)
	if err != nil {
		return err
	}

	r.writePlainHeader(run.PlaylistName)
	r.writePlain("Run:      %s\n", run.ID)
	r.writePlain("Playlist: %s\n", run.PlaylistID)
	r.writePlain("Output:   %s\n", run.OutputDir)
	r.writePlain("Format:   %s\n", run.Format)
	r.writePlain("Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	if run.Finished() {
		r.writePlain("Took:     %s\n", run.Elapsed().Round(time.Second))
	} else {
		r.writePlain("Took:     (unfinished)\n")
	}
	r.writePlain("Tracks:   %d (%d omitted)\n\n", run.TotalTracks, run.Omitted)

	if cmd.Bool("legend") {
		if err := formatter.RenderLegend(r.output); err != nil {
			return err
		}
	}
	return formatter.RenderResults(r.output, results)
}

// HistoryDelete removes a run. The id may be a unique prefix.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("run-id")
	if id == "" {
		return fmt.Errorf("%w: run-id", shared.ErrMissingArgument)
	}

	repo, closer, err := r.historyRepo(cmd)
	if err != nil {
		return err
	}
	defer closer()

	run, err := repo.Get(id)
	if err != nil {
		return err
	}
	if err := repo.Delete(run.ID); err != nil {
		return err
	}
	return r.writePlain("Deleted run %s (%s)\n", formatter.ShortID(run.ID), run.PlaylistName)
}

// ConfigInit writes the default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("Created %s\n", path)
}
