// Package repositories stores grab runs and their per-track results in SQLite.
//
// # Schema
//
// Tables are created by the embedded migrations in the shared package:
//   - runs : one row per grab invocation (playlist, output directory, format, counts, timestamps)
//   - run_results : one row per track result, ordered by position within the run
//
// Deleting a run cascades to its results.
//
// # Usage
//
//	db, err := shared.OpenHistory(path)
//	repo := repositories.NewRunRepository(db)
//	run := &models.Run{PlaylistID: id, PlaylistName: name, OutputDir: dir, Format: "mp3"}
//	err = repo.Create(run)
//	err = repo.AddResults(run.ID, results)
//	err = repo.Finish(run.ID, total, omitted)
//
// History is append-only: the same playlist grabbed twice produces two unrelated runs.
package repositories
