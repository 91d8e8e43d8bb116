package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
)

// RunRepository persists [models.Run] rows and their track results.
type RunRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db, now: time.Now}
}

// Create inserts run with a generated ID and the current time as start, unless already set.
func (r *RunRepository) Create(run *models.Run) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = r.now().UTC()
	}

	query := `
		INSERT INTO runs (id, playlist_id, playlist_name, output_dir, format, total_tracks, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		run.ID,
		run.PlaylistID,
		run.PlaylistName,
		run.OutputDir,
		run.Format,
		run.TotalTracks,
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// AddResults appends results to a run, continuing its position sequence.
func (r *RunRepository) AddResults(runID string, results []models.TrackResult) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		var next int
		if err := tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM run_results WHERE run_id = ?`, runID).Scan(&next); err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO run_results (run_id, position, track_name, status, url, file_path)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, res := range results {
			if _, err := stmt.Exec(runID, next+i, res.TrackName, res.Status, res.URL, res.FilePath); err != nil {
				return fmt.Errorf("failed to insert result %q: %w", res.TrackName, err)
			}
		}
		return nil
	})
}

// Finish records the final counts and the finish time of a run.
func (r *RunRepository) Finish(runID string, total, omitted int) error {
	res, err := r.db.Exec(
		`UPDATE runs SET total_tracks = ?, omitted = ?, finished_at = ? WHERE id = ?`,
		total, omitted, r.now().UTC(), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, runID)
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit returns every run.
func (r *RunRepository) List(limit int) ([]models.Run, error) {
	query := `
		SELECT id, playlist_id, playlist_name, output_dir, format, total_tracks, omitted, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Get retrieves a run by its ID or by an unambiguous ID prefix. The prefix is compared literally.
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT id, playlist_id, playlist_name, output_dir, format, total_tracks, omitted, started_at, finished_at
		FROM runs
		WHERE id = ? OR substr(id, 1, length(?)) = ?
		ORDER BY id = ? DESC
		LIMIT 2
	`
	rows, err := r.db.Query(query, id, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: ambiguous run id prefix %q", shared.ErrInvalidArgument, id)
	}
}

// Results returns the stored results of a run in insertion order.
func (r *RunRepository) Results(runID string) ([]models.TrackResult, error) {
	rows, err := r.db.Query(`
		SELECT track_name, status, url, file_path
		FROM run_results
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.TrackResult
	for rows.Next() {
		var res models.TrackResult
		if err := rows.Scan(&res.TrackName, &res.Status, &res.URL, &res.FilePath); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

// Delete removes a run and its results.
func (r *RunRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*models.Run, error) {
	var (
		run      models.Run
		finished sql.NullTime
	)

	err := s.Scan(
		&run.ID,
		&run.PlaylistID,
		&run.PlaylistName,
		&run.OutputDir,
		&run.Format,
		&run.TotalTracks,
		&run.Omitted,
		&run.StartedAt,
		&finished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
