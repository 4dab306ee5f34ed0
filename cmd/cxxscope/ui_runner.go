package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cxxscope/internal/driver"
	"cxxscope/internal/source"
	"cxxscope/internal/ui"
)

type runOutcome struct {
	fs      *source.FileSet
	results []*driver.UnitResult
	err     error
}

// runUnits runs the driver, showing the progress view when the session
// asks for it.
func (s *session) runUnits(ctx context.Context, title string, files []string, opts driver.Options) (*source.FileSet, []*driver.UnitResult, error) {
	if !shouldUseTUI(s.ui) || s.quiet {
		return driver.Run(ctx, files, opts)
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = driver.ChannelSink{Ch: events}
		fs, results, err := driver.Run(ctx, files, optsCopy)
		outcomeCh <- runOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
