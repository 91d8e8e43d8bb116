package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/tasks"
	"github.com/mattn/go-isatty"
)

// RunFunc performs a run, honouring ctx cancellation.
type RunFunc func(ctx context.Context) *tasks.RunResult

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RunInteractive runs fn while drawing a [ProgressModel] on out.
//
// Pressing q or ctrl+c cancels the context given to fn; the view stays up until fn returns.
// When the view itself fails, fn keeps running to completion and the error is returned
// alongside its result.
func RunInteractive(ctx context.Context, in io.Reader, out io.Writer, title string, total int, updates <-chan tasks.ProgressUpdate, fn RunFunc) (*tasks.RunResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewProgressModel(title, total, updates, cancel)
	program := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out), tea.WithoutSignalHandler())

	done := make(chan *tasks.RunResult, 1)
	go func() {
		res := fn(ctx)
		done <- res
		program.Send(runCompleteMsg(res))
	}()

	if _, err := program.Run(); err != nil {
		return drain(updates, done, nil), fmt.Errorf("progress view failed: %w", err)
	}
	return <-done, nil
}

// RunPlain runs fn and writes one counter line per update to out.
//
// updates may be closed by fn once it is done sending.
func RunPlain(ctx context.Context, out io.Writer, updates <-chan tasks.ProgressUpdate, fn RunFunc) *tasks.RunResult {
	done := make(chan *tasks.RunResult, 1)
	go func() { done <- fn(ctx) }()

	bar := NewBar(30)
	return drain(updates, done, func(u tasks.ProgressUpdate) {
		PrintUpdate(out, bar.ViewAs(percent(u)), u)
	})
}

// drain consumes updates until done yields a result, then flushes what is still buffered.
// A nil handle discards updates.
func drain(updates <-chan tasks.ProgressUpdate, done <-chan *tasks.RunResult, handle func(tasks.ProgressUpdate)) *tasks.RunResult {
	if handle == nil {
		handle = func(tasks.ProgressUpdate) {}
	}

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			handle(u)
		case res := <-done:
			for {
				select {
				case u, ok := <-updates:
					if !ok {
						return res
					}
					handle(u)
				default:
					return res
				}
			}
		}
	}
}

// PrintUpdate writes a single progress line.
func PrintUpdate(out io.Writer, bar string, u tasks.ProgressUpdate) {
	if u.Phase == tasks.ProcessStart {
		fmt.Fprintln(out, styles.Help(u.Message))
		return
	}
	fmt.Fprintf(out, "%s %s\n", bar, updateLine(u))
}

// updateLine renders a track update with its status coloured.
func updateLine(u tasks.ProgressUpdate) string {
	switch data := u.Data.(type) {
	case models.TrackResult:
		return fmt.Sprintf("[%d/%d] %s: %s", u.Step, u.Total, data.TrackName, styles.Status(data.Status))
	case tasks.Omission:
		return styles.Err(u.Message)
	default:
		return u.Message
	}
}

func percent(u tasks.ProgressUpdate) float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.Step) / float64(u.Total)
}
