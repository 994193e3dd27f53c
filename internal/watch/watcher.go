// Package watch reports changes of series files to the UI loop.
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/wandb/tschart/internal/debounce"
	"github.com/wandb/tschart/internal/observability"
	"github.com/wandb/tschart/internal/watcher"
)

// DefaultPollingPeriod is how often series files are polled.
const DefaultPollingPeriod = 250 * time.Millisecond

// MinPostInterval bounds how often changes are posted for files that are
// rewritten continuously.
const MinPostInterval = 500 * time.Millisecond

// SeriesFileChangedMsg is posted after one or more watched files changed.
type SeriesFileChangedMsg struct {
	// Paths are the changed files, absolute and sorted.
	Paths []string
}

// FileWatcher watches series files and posts SeriesFileChangedMsg.
//
// Changes seen within one polling period are posted together, and at most
// one message is posted per MinPostInterval.
type FileWatcher struct {
	msgChan       chan tea.Msg
	logger        *observability.CoreLogger
	pollingPeriod time.Duration

	mu        sync.Mutex
	watcher   watcher.Watcher
	debouncer *debounce.Debouncer
	done      chan struct{}
	wg        sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[string]struct{}
}

func NewFileWatcher(
	msgChan chan tea.Msg,
	pollingPeriod time.Duration,
	logger *observability.CoreLogger,
) *FileWatcher {
	if pollingPeriod <= 0 {
		pollingPeriod = DefaultPollingPeriod
	}
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &FileWatcher{
		msgChan:       msgChan,
		logger:        logger,
		pollingPeriod: pollingPeriod,
		pending:       make(map[string]struct{}),
	}
}

// Start begins watching paths. Calling Start on a started watcher is a
// no-op.
func (fw *FileWatcher) Start(paths []string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.watcher != nil {
		return nil
	}

	fw.logger.Debug(fmt.Sprintf("watch: starting for %d files", len(paths)))

	w := watcher.New(watcher.Params{
		Logger:        fw.logger,
		PollingPeriod: fw.pollingPeriod,
	})
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			w.Finish()
			return fmt.Errorf("watch: %s: %w", path, err)
		}
		if err := w.Watch(abs, func() { fw.onChange(abs) }); err != nil {
			w.Finish()
			fw.logger.CaptureError(fmt.Errorf("watch: error starting: %v", err))
			return err
		}
	}

	fw.watcher = w
	fw.debouncer = debounce.NewDebouncer(rate.Every(MinPostInterval), 1, fw.logger)
	fw.done = make(chan struct{})
	fw.wg.Add(1)
	go fw.loopFlush(fw.debouncer, fw.done)

	fw.logger.Debug("watch: started successfully")
	return nil
}

// Finish stops the watcher and waits for its goroutines to exit.
func (fw *FileWatcher) Finish() {
	fw.mu.Lock()
	w, d, done := fw.watcher, fw.debouncer, fw.done
	fw.watcher, fw.debouncer, fw.done = nil, nil, nil
	fw.mu.Unlock()

	if w == nil {
		return
	}

	fw.logger.Debug("watch: finishing")
	close(done)
	fw.wg.Wait()
	w.Finish()
	d.Stop()
}

// IsStarted returns whether the watcher is running.
func (fw *FileWatcher) IsStarted() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.watcher != nil
}

// WaitForMsg blocks until the next message is posted.
func (fw *FileWatcher) WaitForMsg() tea.Msg {
	msg := <-fw.msgChan
	if msg != nil {
		fw.logger.Debug(fmt.Sprintf("watch: received message: %T", msg))
	}
	return msg
}

func (fw *FileWatcher) onChange(path string) {
	fw.logger.Debug(fmt.Sprintf("watch: file changed: %s", path))

	fw.pendingMu.Lock()
	defer fw.pendingMu.Unlock()
	fw.pending[path] = struct{}{}
}

func (fw *FileWatcher) hasPending() bool {
	fw.pendingMu.Lock()
	defer fw.pendingMu.Unlock()
	return len(fw.pending) > 0
}

// loopFlush posts pending changes once per polling period, as often as the
// debouncer allows.
func (fw *FileWatcher) loopFlush(d *debounce.Debouncer, done <-chan struct{}) {
	defer fw.wg.Done()

	ticker := time.NewTicker(fw.pollingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if fw.hasPending() {
				d.SetNeedsDebounce()
			}
			d.Debounce(fw.post)
		}
	}
}

func (fw *FileWatcher) post() {
	fw.pendingMu.Lock()
	paths := make([]string, 0, len(fw.pending))
	for p := range fw.pending {
		paths = append(paths, p)
	}
	fw.pending = make(map[string]struct{})
	fw.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	select {
	case fw.msgChan <- SeriesFileChangedMsg{Paths: paths}:
		fw.logger.Debug("watch: SeriesFileChangedMsg sent")
	default:
		fw.logger.CaptureWarn("watch: message channel full, dropping SeriesFileChangedMsg")
	}
}
