// Package ui renders console output for the grab command.
//
// Two progress modes are available:
//  1. [RunInteractive] : a bubbletea program ([ProgressModel]) with a progress bar and
//     a stop key, used when stdout is a terminal
//  2. [RunPlain] : one counter line per completed track, used for pipes and logs
//
// Both consume the [tasks.ProgressUpdate] channel fed by the scheduler. The [Palette]
// styles banners, summaries and status codes with lipgloss.
package ui
