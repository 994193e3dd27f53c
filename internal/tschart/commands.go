package tschart

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/wandb/tschart/internal/observability"
	"github.com/wandb/tschart/internal/series"
)

const loadTimeout = 30 * time.Second

func windowTitleCmd() tea.Cmd {
	return tea.SetWindowTitle("tschart")
}

// loadSeriesCmd reads all series files off the UI goroutine.
func loadSeriesCmd(fs afero.Fs, paths []string, logger *observability.CoreLogger) tea.Cmd {
	return func() tea.Msg {
		defer timeit(logger, "loadSeries")()

		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		file, err := series.LoadAll(ctx, fs, paths)
		if err != nil {
			logger.CaptureError(fmt.Errorf("tschart: failed to load series: %v", err))
			return SeriesLoadedMsg{Err: err}
		}
		return SeriesLoadedMsg{File: file}
	}
}

func timeit(logger *observability.CoreLogger, scope string) func() {
	start := time.Now()
	return func() {
		logger.Debug(fmt.Sprintf("perf: %s took %s", scope, time.Since(start)))
	}
}
