package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"aliasc/internal/driver"
	"aliasc/internal/source"
	"aliasc/internal/ui"
)

type buildDirOutcome struct {
	fs      *source.FileSet
	results []driver.DirResult
	err     error
}

// runBuildDirWithUI runs BuildDir in the background and renders its progress;
// diagnostics are printed after the UI exits so they do not tear the screen.
func runBuildDirWithUI(cmd *cobra.Command, dir string, opts driver.Options, jobs int, out outputFlags) ([]driver.DirResult, error) {
	files, err := driver.ListSources(dir)
	if err != nil {
		return nil, err
	}
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan buildDirOutcome, 1)
	opts.OnPhase, opts.OnProgress = ui.Observers(events)

	go func() {
		fs, results, err := driver.BuildDir(cmd.Context(), dir, opts, jobs)
		outcomeCh <- buildDirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("building "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(cmd.Context()))
	_, uiErr := program.Run()
	// после выхода из UI (в том числе по Ctrl+C) канал никто не читает; дочитываем, чтобы сборка не встала
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.err != nil {
		return nil, fmt.Errorf("build failed: %w", outcome.err)
	}
	if err := reportDiagnostics(cmd, driver.MergeBags(outcome.results, out.maxDiagnostics), outcome.fs, out); err != nil {
		return nil, err
	}
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, nil
}
