package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
	tu "github.com/desertthunder/ytgrab/internal/testing"
	"github.com/urfave/cli/v3"
)

type grabFixture struct {
	runner   *Runner
	output   *bytes.Buffer
	config   *shared.Config
	source   *tu.MockPlaylistSource
	search   *tu.MockSearch
	download *tu.MockDownloader
	outDir   string
}

func newGrabFixture(t *testing.T) *grabFixture {
	t.Helper()
	dir := t.TempDir()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "history.db")
	config.Download.Workers = 1

	f := &grabFixture{
		output: &bytes.Buffer{},
		config: config,
		source: &tu.MockPlaylistSource{
			Info: &models.PlaylistInfo{ID: "pl1", Name: "Road Trip", Owner: "owen", TrackCount: 2},
			Entries: []models.TrackRequest{
				{Title: "Song A", Artist: "Band", Duration: 200, Album: "First"},
				{Title: "Song B", Artist: "Band", Duration: 180, Album: "First"},
			},
		},
		search: &tu.MockSearch{Results: map[string][]models.Candidate{
			"Song A": {{Title: "Song A", Artists: []string{"Band"}, Duration: 200, ExternalID: "aaa"}},
		}},
		download: &tu.MockDownloader{},
		outDir:   filepath.Join(dir, "out"),
	}

	f.runner = NewRunner(RunnerOpts{
		Config:   config,
		Source:   f.source,
		Search:   f.search,
		Download: f.download,
		Tags:     &tu.MockTagWriter{},
		Logger:   shared.NewLogger(io.Discard),
		Output:   f.output,
		Input:    strings.NewReader(""),
		HomeDir:  func() (string, error) { return dir, nil },
	})
	return f
}

func (f *grabFixture) run(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "ytgrab", Commands: f.runner.register()}
	return app.Run(context.Background(), append([]string{"ytgrab"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			source := &tu.MockPlaylistSource{}
			search := &tu.MockSearch{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Source:     source,
				Search:     search,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
			if runner.search != search {
				t.Error("expected search to be set")
			}
		})

		t.Run("with defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config")
			}
			if runner.logger == nil {
				t.Error("expected default logger")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected default http client")
			}
			if runner.homeDir == nil {
				t.Error("expected home dir resolver")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})
		names := map[string]bool{}
		for _, c := range runner.register() {
			names[c.Name] = true
		}
		for _, want := range []string{"grab", "history", "config"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("%d tracks", 3); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.String() != "3 tracks" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("returns write errors", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writePlainln("x"); err == nil {
				t.Error("expected error")
			}
		})
	})
}

func TestGrab(t *testing.T) {
	t.Run("downloads matches and writes report", func(t *testing.T) {
		f := newGrabFixture(t)

		err := f.run(t, "grab", "--playlist", "https://open.spotify.com/playlist/pl1?si=x",
			"--output", f.outDir, "--format", "flac", "--csv", "--log", "--plain")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(f.outDir, "Song A.flac"))
		tu.AssertFileNotExists(t, filepath.Join(f.outDir, "Song B.flac"))

		report := tu.MustReadFile(t, filepath.Join(f.outDir, "report.txt"))
		if !strings.Contains(report, "Song A") || !strings.Contains(report, "https://music.youtube.com/watch?v=aaa") {
			t.Errorf("report missing matched track:\n%s", report)
		}
		if !strings.Contains(report, "NOT_FOUND") {
			t.Errorf("report missing NOT_FOUND row:\n%s", report)
		}
		tu.AssertFileExists(t, filepath.Join(f.outDir, "results.csv"))

		out := f.output.String()
		for _, want := range []string{"Road Trip (2 tracks)", "Length: 6:20", "Report written to", "CSV written to", "No errors were logged."} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("records the run in history", func(t *testing.T) {
		f := newGrabFixture(t)
		if err := f.run(t, "grab", "-p", "pl1", "-o", f.outDir, "-f", "flac", "--plain"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f.output.Reset()
		if err := f.run(t, "history", "list"); err != nil {
			t.Fatalf("history list: %v", err)
		}
		if !strings.Contains(f.output.String(), "Road Trip") {
			t.Errorf("expected run in list, got:\n%s", f.output.String())
		}

		repo, closer, err := openRuns(f.config.Database.Path)
		if err != nil {
			t.Fatalf("open history: %v", err)
		}
		runs, err := repo.List(1)
		closer()
		if err != nil || len(runs) != 1 {
			t.Fatalf("expected one run, got %d (%v)", len(runs), err)
		}
		if !runs[0].Finished() || runs[0].TotalTracks != 2 {
			t.Errorf("unexpected run %+v", runs[0])
		}

		f.output.Reset()
		if err := f.run(t, "history", "show", "--legend", runs[0].ID[:8]); err != nil {
			t.Fatalf("history show: %v", err)
		}
		out := f.output.String()
		for _, want := range []string{"Run:      " + runs[0].ID, "Status codes:", "Song A", "Song B"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected show output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("defaults output to Downloads", func(t *testing.T) {
		f := newGrabFixture(t)
		if err := f.run(t, "grab", "-p", "pl1", "-f", "flac", "--no-report", "--plain"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := f.runner.homeDir()
		dir := filepath.Join(home, "Downloads", "Road Trip")
		tu.AssertDirExists(t, dir)
		tu.AssertFileExists(t, filepath.Join(dir, "Song A.flac"))
		tu.AssertFileNotExists(t, filepath.Join(dir, "report.txt"))
	})

	t.Run("replace clears the output directory", func(t *testing.T) {
		f := newGrabFixture(t)
		stale := filepath.Join(f.outDir, "stale.mp3")
		if err := os.MkdirAll(f.outDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(stale, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := f.run(t, "grab", "-p", "pl1", "-o", f.outDir, "-f", "flac", "--replace", "--plain"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileNotExists(t, stale)
		tu.AssertFileExists(t, filepath.Join(f.outDir, "Song A.flac"))
	})

	t.Run("rejects unsupported format", func(t *testing.T) {
		f := newGrabFixture(t)
		err := f.run(t, "grab", "-p", "pl1", "-o", f.outDir, "-f", "ogg")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("rejects zero workers", func(t *testing.T) {
		f := newGrabFixture(t)
		err := f.run(t, "grab", "-p", "pl1", "-o", f.outDir, "-w", "0")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("propagates playlist errors", func(t *testing.T) {
		f := newGrabFixture(t)
		f.source.Err = shared.ErrPlaylistNotFound

		err := f.run(t, "grab", "-p", "missing", "-o", f.outDir)
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
		tu.AssertFileNotExists(t, f.outDir)
	})

	t.Run("missing config file named explicitly", func(t *testing.T) {
		f := newGrabFixture(t)
		err := f.run(t, "grab", "-p", "pl1", "-c", filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("continues without history", func(t *testing.T) {
		f := newGrabFixture(t)
		f.config.Database.Path = ""

		if err := f.run(t, "grab", "-p", "pl1", "-o", f.outDir, "-f", "flac", "--plain"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(f.outDir, "report.txt"))
	})
}

func TestApplyGrabFlags(t *testing.T) {
	config := shared.DefaultConfig()
	var got *shared.Config

	cmd := grabCommand(NewRunner(RunnerOpts{}))
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		applyGrabFlags(config, c)
		got = config
		return nil
	}

	err := cmd.Run(context.Background(), []string{"grab", "-p", "x", "-f", "wav", "-w", "8",
		"--client-id", "id", "--client-secret", "secret", "--no-report", "--log"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Download.Format != "wav" || got.Download.Workers != 8 {
		t.Errorf("unexpected download config %+v", got.Download)
	}
	if got.Credentials.Spotify.ClientID != "id" || got.Credentials.Spotify.ClientSecret != "secret" {
		t.Errorf("unexpected credentials %+v", got.Credentials.Spotify)
	}
	if got.Download.Report || !got.Download.Log {
		t.Errorf("expected report off and log on, got %+v", got.Download)
	}
}

func TestHistory(t *testing.T) {
	t.Run("list with no runs", func(t *testing.T) {
		f := newGrabFixture(t)
		if err := f.run(t, "history", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(f.output.String(), "No runs recorded.") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("disabled history", func(t *testing.T) {
		f := newGrabFixture(t)
		f.config.Database.Path = ""
		err := f.run(t, "history", "list")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("show requires an id", func(t *testing.T) {
		f := newGrabFixture(t)
		err := f.run(t, "history", "show")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("show unknown run", func(t *testing.T) {
		f := newGrabFixture(t)
		err := f.run(t, "history", "show", "nope")
		if !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("delete removes a run", func(t *testing.T) {
		f := newGrabFixture(t)
		if err := f.run(t, "grab", "-p", "pl1", "-o", f.outDir, "-f", "flac", "--plain"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		repo, closer, err := openRuns(f.config.Database.Path)
		if err != nil {
			t.Fatalf("open history: %v", err)
		}
		runs, _ := repo.List(0)
		closer()
		if len(runs) != 1 {
			t.Fatalf("expected one run, got %d", len(runs))
		}

		f.output.Reset()
		if err := f.run(t, "history", "delete", runs[0].ID); err != nil {
			t.Fatalf("history delete: %v", err)
		}
		if !strings.Contains(f.output.String(), "Deleted run") {
			t.Errorf("unexpected output %q", f.output.String())
		}

		err = f.run(t, "history", "show", runs[0].ID)
		if !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound after delete, got %v", err)
		}
	})

	t.Run("db flag overrides config", func(t *testing.T) {
		f := newGrabFixture(t)
		f.config.Database.Path = ""
		db := filepath.Join(t.TempDir(), "other.db")
		if err := f.run(t, "history", "list", "--db", db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, db)
	})
}

func TestConfigInit(t *testing.T) {
	f := newGrabFixture(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := f.run(t, "config", "init", "--path", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := shared.LoadConfig(path); err != nil {
		t.Errorf("created config does not load: %v", err)
	}
	if err := f.run(t, "config", "init", "--path", path); err == nil {
		t.Error("expected error when config already exists")
	}
}
