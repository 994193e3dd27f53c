package view

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wandb/tschart/internal/observability"
	"github.com/wandb/tschart/internal/sentry_ext"
	"github.com/wandb/tschart/internal/series"
	"github.com/wandb/tschart/internal/settings"
	"github.com/wandb/tschart/internal/tschart"
	"github.com/wandb/tschart/internal/version"
	"github.com/wandb/tschart/internal/watch"
)

const debugLogFile = "tschart.debug.log"

func NewViewCmd() *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "view <file>...",
		Short: "Open series files in the interactive chart",
		Long: heredoc.Doc(`
			Open one or more series files in the interactive chart.

			CSV files have a time column followed by one column per series;
			times are unix seconds or dates such as 2024-01-31. JSON files
			hold a "series" array and an optional "markers" array.

			Files are reloaded when they change on disk.

			Set TSCHART_DEBUG to write a debug log to tschart.debug.log.
		`),
		Example: heredoc.Doc(`
			$ tschart view portfolio.csv
			$ tschart view portfolio.csv benchmark.json --no-watch
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args, !noWatch)
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload files when they change")

	return cmd
}

func runView(cmd *cobra.Command, paths []string, watchFiles bool) error {
	s, err := settings.Load(viper.GetViper())
	if err != nil {
		return err
	}

	// Sentry reporting.
	enableErrorReporting, reportingErr := errorReportingEnabled(os.Getenv("TSCHART_ERROR_REPORTING"))

	sentryClient := sentry_ext.New(sentry_ext.Params{
		DSN:              s.SentryDSN,
		Disabled:         !enableErrorReporting,
		AttachStacktrace: true,
		Release:          version.Version,
		Environment:      version.Environment,
	})
	if sentryClient != nil {
		defer sentryClient.Flush(2 * time.Second)
	}

	// Enable debug logging if TSCHART_DEBUG is set.
	var writer io.Writer
	if os.Getenv("TSCHART_DEBUG") != "" {
		loggerFile, err := os.OpenFile(debugLogFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		writer = loggerFile
		defer func() {
			_ = loggerFile.Close()
		}()
	} else {
		writer = io.Discard
	}

	handler := log.NewWithOptions(writer, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		Formatter:       log.JSONFormatter,
	})
	logger := observability.NewCoreLogger(
		slog.New(handler),
		&observability.CoreLoggerParams{
			Tags:   observability.Tags{},
			Sentry: sentryClient,
		},
	)
	defer logger.Reraise("command", "view")

	if reportingErr != nil {
		logger.Warn("view: ignoring TSCHART_ERROR_REPORTING", "error", reportingErr)
	}

	fs := afero.NewOsFs()
	file, err := series.LoadAll(cmd.Context(), fs, paths)
	if err != nil {
		return err
	}

	var watcher *watch.FileWatcher
	if watchFiles {
		watcher = watch.NewFileWatcher(make(chan tea.Msg, 16), watch.DefaultPollingPeriod, logger)
		if err := watcher.Start(paths); err != nil {
			logger.CaptureWarn("view: file watching disabled", "error", err)
			watcher = nil
		} else {
			defer watcher.Finish()
		}
	}

	model := tschart.NewModel(tschart.Params{
		Paths:    paths,
		Fs:       fs,
		Settings: s,
		File:     file,
		Watcher:  watcher,
		Logger:   logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		logger.Error(fmt.Sprintf("view: %v", err))
		return err
	}

	return nil
}

// errorReportingEnabled parses TSCHART_ERROR_REPORTING. Reporting stays on
// when the variable is unset or invalid.
func errorReportingEnabled(env string) (bool, error) {
	if env == "" {
		return true, nil
	}
	enabled, err := strconv.ParseBool(env)
	if err != nil {
		return true, fmt.Errorf("invalid boolean %q: %w", env, err)
	}
	return enabled, nil
}
