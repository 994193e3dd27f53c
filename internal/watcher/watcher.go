// Package watcher notifies on changes to files.
package watcher

import (
	"time"

	"github.com/wandb/tschart/internal/observability"
)

// DefaultPollingPeriod is used when Params.PollingPeriod is unset.
const DefaultPollingPeriod = 500 * time.Millisecond

// Watcher invokes callbacks when registered files are modified.
type Watcher interface {
	// Watch begins watching the file at the specified path.
	//
	// onChange is usually invoked after the contents of the file may have
	// changed. Changes are detected by polling the file's modification time
	// and size, so a rewrite that keeps both may go unnoticed.
	Watch(path string, onChange func()) error

	// Finish stops the watcher from emitting any more change events.
	Finish()
}

type Params struct {
	Logger *observability.CoreLogger

	// PollingPeriod is how often to poll files for updates.
	//
	// If unset, DefaultPollingPeriod is used.
	PollingPeriod time.Duration
}

func New(params Params) Watcher {
	return newWatcher(params)
}
