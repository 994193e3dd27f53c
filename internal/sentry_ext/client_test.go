package sentry_ext_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/tschart/internal/sentry_ext"
)

func TestNew_DisabledClientIsUsable(t *testing.T) {
	sc := sentry_ext.New(sentry_ext.Params{Disabled: true, DSN: "https://key@example.invalid/1"})
	require.NotNil(t, sc)

	// Must not panic without a transport.
	sc.CaptureException(errors.New("boom"), map[string]string{"chart": "a"})
	sc.CaptureMessage("hello", nil)
}

func TestRecentErrorsAreDeduplicated(t *testing.T) {
	sc := sentry_ext.New(sentry_ext.Params{LRUSize: 2})
	require.NotNil(t, sc)

	sc.CaptureException(errors.New("same"), nil)
	sc.CaptureException(errors.New("same"), nil)

	assert.Equal(t, 1, sc.Recent.Len())
}

func TestReraise_NilIsIgnored(t *testing.T) {
	sc := sentry_ext.New(sentry_ext.Params{})
	require.NotNil(t, sc)

	assert.NotPanics(t, func() { sc.Reraise(nil, nil) })
}
