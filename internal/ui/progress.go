package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytgrab/internal/tasks"
)

const maxBarWidth = 60

// ProgressModel is the bubbletea model drawing a counter and bar while tracks are processed.
type ProgressModel struct {
	title      string
	total      int
	last       tasks.ProgressUpdate
	bar        progress.Model
	help       help.Model
	keys       keyMap
	updates    <-chan tasks.ProgressUpdate
	cancel     context.CancelFunc
	cancelling bool
	result     *tasks.RunResult
}

// NewProgressModel creates the view. cancel is called once when the user asks to stop.
func NewProgressModel(title string, total int, updates <-chan tasks.ProgressUpdate, cancel context.CancelFunc) *ProgressModel {
	return &ProgressModel{
		title:   title,
		total:   total,
		bar:     NewBar(40),
		help:    help.New(),
		keys:    newKeyMap(),
		updates: updates,
		cancel:  cancel,
	}
}

// NewBar creates a gradient progress bar of the given width.
func NewBar(width int) progress.Model {
	return progress.New(progress.WithDefaultGradient(), progress.WithWidth(width))
}

// Result returns the run result once the view received it.
func (m *ProgressModel) Result() *tasks.RunResult { return m.result }

// Percent returns the completed fraction in [0, 1].
func (m *ProgressModel) Percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.last.Step) / float64(m.total)
}

func (m *ProgressModel) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// waitForUpdate reads the next update from the channel as a [tea.Cmd].
func waitForUpdate(updates <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return progressUpdateMsg(u)
	}
}

func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && !m.cancelling {
			m.cancelling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.last = msg.data.(tasks.ProgressUpdate)
			return m, waitForUpdate(m.updates)
		case MsgRunComplete:
			m.result, _ = msg.data.(*tasks.RunResult)
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title(m.title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %d/%d\n", m.bar.ViewAs(m.Percent()), m.last.Step, m.total)

	if m.last.Message != "" {
		b.WriteString(updateLine(m.last))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.result != nil:
		b.WriteString(styles.OK("Done."))
	case m.cancelling:
		b.WriteString(styles.Warn("Stopping, waiting for running tracks..."))
	default:
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	return b.String()
}
