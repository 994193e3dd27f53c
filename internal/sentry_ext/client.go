package sentry_ext

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

type Params struct {
	// DSN is the Data Source Name for the sentry client.
	//
	// An empty DSN disables reporting.
	DSN string
	// Disabled turns off reporting even if a DSN is set.
	Disabled bool
	// AttachStacktrace attaches a stacktrace to every event.
	AttachStacktrace bool
	// Release is the version of the application.
	Release string
	// Environment is the environment the application is running in.
	Environment string
	// LRUSize is the size of the recent-errors cache.
	LRUSize int
}

type Client struct {
	// Recent is the cache of recent errors sent to sentry to avoid sending
	// the same error multiple times.
	Recent *cache
}

// New initializes the sentry client.
//
// Returns nil if the recent-errors cache can't be created.
func New(params Params) *Client {
	dsn := params.DSN
	if params.Disabled {
		dsn = ""
	}

	if err := sentry.Init(
		sentry.ClientOptions{
			Dsn:              dsn,
			AttachStacktrace: params.AttachStacktrace,
			Release:          params.Release,
			Environment:      params.Environment,
		}); err != nil {
		slog.Error("sentry_ext: New: failed to initialize sentry", "err", err)
	}

	if dsn == "" {
		slog.Debug("sentry_ext: New: sentry is disabled")
	}

	cache, err := newCache(params.LRUSize)
	if err != nil {
		slog.Error("sentry_ext: New: failed to create cache", "err", err)
		return nil
	}

	return &Client{Recent: cache}
}

// CaptureException sends an error-level event enriched with tags.
func (s *Client) CaptureException(err error, tags map[string]string) {
	if !s.Recent.shouldCapture(err) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
	localHub.CaptureException(err)
}

// CaptureMessage sends an info-level event enriched with tags.
func (s *Client) CaptureMessage(msg string, tags map[string]string) {
	if !s.Recent.shouldCapture(errors.New(msg)) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
	localHub.CaptureMessage(msg)
}

// Reraise captures a recovered panic value and flushes pending events.
//
// The caller is responsible for panicking again.
func (s *Client) Reraise(recovered any, tags map[string]string) {
	if recovered == nil {
		return
	}

	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	s.CaptureException(err, tags)
	s.Flush(2 * time.Second)
}

// Flush waits for pending events to be sent.
func (s *Client) Flush(timeout time.Duration) bool {
	return sentry.CurrentHub().Flush(timeout)
}
