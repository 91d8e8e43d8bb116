// package tasks implements the per-track resolution pipeline and the worker pool running it.
//
// A [Processor] turns one [models.TrackRequest] into one [models.TrackResult] by composing the
// search provider, [matching.BestMatch], [matching.Classify], the [Downloader] and the [Tagger].
// The [Scheduler] runs a Processor over a whole playlist with a fixed number of workers.
package tasks

import (
	"io"

	"github.com/charmbracelet/log"
)

// ErrorRecorder receives one line per recoverable failure. [shared.ErrorLog] implements it.
type ErrorRecorder interface {
	Printf(format string, args ...any)
}

type nopRecorder struct{}

func (nopRecorder) Printf(string, ...any) {}

func orNop(r ErrorRecorder) ErrorRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
