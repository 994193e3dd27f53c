package tschart

import "github.com/wandb/tschart/internal/series"

// SeriesLoadedMsg carries the result of (re)loading the series files.
type SeriesLoadedMsg struct {
	File *series.File
	Err  error
}
