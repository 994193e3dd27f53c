// Package debounce limits how often a pending action runs.
package debounce

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/wandb/tschart/internal/observability"
)

// Debouncer runs a pending action at most as often as its rate allows.
//
// An action is pending after SetNeedsDebounce and until it runs.
type Debouncer struct {
	mu            sync.Mutex
	limiter       *rate.Limiter
	finished      bool
	needsDebounce bool
	logger        *observability.CoreLogger
}

func NewDebouncer(
	eventRate rate.Limit,
	burstSize int,
	logger *observability.CoreLogger,
) *Debouncer {
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &Debouncer{
		limiter: rate.NewLimiter(eventRate, burstSize),
		logger:  logger,
	}
}

// SetNeedsDebounce marks the action as pending.
func (d *Debouncer) SetNeedsDebounce() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.needsDebounce = true
}

// NeedsDebounce reports whether the action is pending.
func (d *Debouncer) NeedsDebounce() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.needsDebounce
}

// Debounce runs f if the action is pending and the rate limiter allows it.
func (d *Debouncer) Debounce(f func()) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.finished || !d.needsDebounce || !d.limiter.Allow() {
		return
	}
	d.flush(f)
}

// Flush runs f if the action is pending, ignoring the rate limit.
func (d *Debouncer) Flush(f func()) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.finished {
		return
	}
	d.flush(f)
}

// flush must be called with mu held.
func (d *Debouncer) flush(f func()) {
	if !d.needsDebounce {
		return
	}
	d.logger.Debug("debounce: flushing")
	f()
	d.needsDebounce = false
}

// Stop makes all future operations no-ops.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.finished = true
}
