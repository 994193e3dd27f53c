package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	poller "github.com/radovskyb/watcher"
	"golang.org/x/sync/errgroup"

	"github.com/wandb/tschart/internal/observability"
)

type watcher struct {
	sync.Mutex
	logger     *observability.CoreLogger
	delegate   *poller.Watcher
	wg         *sync.WaitGroup
	handlers   map[string]func()
	isFinished bool

	pollingPeriod time.Duration
}

func newWatcher(params Params) *watcher {
	if params.PollingPeriod <= 0 {
		params.PollingPeriod = DefaultPollingPeriod
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}

	return &watcher{
		logger:   params.Logger,
		wg:       &sync.WaitGroup{},
		handlers: make(map[string]func()),

		pollingPeriod: params.PollingPeriod,
	}
}

func (w *watcher) Watch(path string, onChange func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watcher: %s: %v", path, err)
	}

	w.Lock()
	defer w.Unlock()

	if w.isFinished {
		return errors.New("watcher: tried to call Watch() after Finish()")
	}

	if w.delegate == nil {
		if err := w.startWatcher(); err != nil {
			return err
		}
	}

	if err := w.delegate.Add(absPath); err != nil {
		return fmt.Errorf("watcher: failed to watch %s: %v", absPath, err)
	}
	w.handlers[absPath] = onChange

	return nil
}

func (w *watcher) Finish() {
	var delegate *poller.Watcher

	w.Lock()
	w.isFinished = true
	delegate = w.delegate
	w.Unlock()

	if delegate != nil {
		delegate.Close()
	}
	w.wg.Wait()
}

// startWatcher starts the polling loop. The mutex must be held.
func (w *watcher) startWatcher() error {
	w.delegate = poller.New()
	// The poller may report an existing file as created if it is added
	// while the first poll runs, so Write and Create are handled alike.
	w.delegate.FilterOps(poller.Write, poller.Create)

	grp, ctx := errgroup.WithContext(context.Background())
	w.wg.Add(2)

	grp.Go(func() error {
		defer w.wg.Done()
		w.loopWatchFiles(ctx)
		return nil
	})

	grp.Go(func() error {
		defer w.wg.Done()
		return w.delegate.Start(w.pollingPeriod)
	})

	// Close is a no-op until Start is looping, so wait for it (or for its
	// error) before returning.
	started := make(chan struct{})
	go func() {
		w.delegate.Wait()
		close(started)
	}()
	select {
	case <-started:
	case <-ctx.Done():
		err := grp.Wait()
		w.delegate = nil
		return fmt.Errorf("watcher: failed to start: %v", err)
	}

	return nil
}

// loopWatchFiles dispatches file events until the poller closes.
//
// ctx breaks the loop if the poller fails to start, in which case none of
// its channels ever receive.
func (w *watcher) loopWatchFiles(ctx context.Context) {
	for {
		select {
		case event := <-w.delegate.Event:
			if event.IsDir() {
				continue
			}
			w.onChange(event.Path)

		case err := <-w.delegate.Error:
			if errors.Is(err, poller.ErrWatchedFileDeleted) {
				w.logger.CaptureWarn("watcher: watched file was deleted", "error", err)
				continue
			}
			w.logger.CaptureError(fmt.Errorf("watcher: error in file watcher: %v", err))

		case <-w.delegate.Closed:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *watcher) onChange(path string) {
	w.Lock()
	handler := w.handlers[path]
	w.Unlock()

	if handler != nil {
		handler()
	}
}
