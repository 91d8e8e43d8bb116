// Package tasks resolves playlist tracks to catalog matches and downloads them concurrently.
//
// # Pipeline
//
// [Processor.Process] handles one track, strictly in order:
//
//  1. Search the catalog for up to 10 candidates by title
//  2. Pick the candidate with the lowest score ([matching.BestMatch])
//  3. Label the match quality ([matching.Classify])
//  4. Download with [Downloader], up to [DownloadAttempts] tries
//  5. Tag the file with [Tagger] when the format is mp3
//
// Search misses and download failures become NOT_FOUND results; tagging failures add
// METADATA_ERROR. None of them stop the run.
//
// # Scheduling
//
// [Scheduler.Run] feeds every track to a fixed pool of workers (default [DefaultWorkers]) and
// gathers results in completion order. A panicking unit is recovered and reported as an
// [Omission].
//
// # Progress Reporting
//
// Runs emit [ProgressUpdate] values on an optional channel. Sends use select with default,
// so a slow reader drops updates instead of blocking workers.
//
// # Shared State
//
// Workers share the output directory and the error log. The error log serializes writes, and
// the [Downloader] keeps a registry of claimed file names so two tracks never get the same path.
package tasks
