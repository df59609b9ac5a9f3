package guard

import (
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentryClientOptionsDropAtZeroRate(t *testing.T) {
	b := NewSentryBackend("test")

	co := b.clientOptions(Options{Endpoint: testDSN, SampleRate: 0, Release: "app@1.0.0"})
	require.NotNil(t, co.BeforeSend)
	assert.Nil(t, co.BeforeSend(&sentry.Event{Message: "x"}, nil))
	assert.Equal(t, testDSN, co.Dsn)
	assert.Equal(t, "app@1.0.0", co.Release)
	assert.Equal(t, "test", co.Environment)
}

func TestSentryClientOptionsKeepRate(t *testing.T) {
	b := NewSentryBackend("production")

	co := b.clientOptions(Options{Endpoint: testDSN, SampleRate: 0.3})
	assert.Nil(t, co.BeforeSend)
	assert.Equal(t, 0.3, co.SampleRate)
}

func TestSentryOpenRejectsInvalidDSN(t *testing.T) {
	_, err := NewSentryBackend("test").Open(Options{Endpoint: "invalid-dsn", SampleRate: 1})
	assert.Error(t, err)
}

func TestSentryOpenReturnsReporter(t *testing.T) {
	h, err := NewSentryBackend("test").Open(Options{Endpoint: testDSN, SampleRate: 0})
	require.NoError(t, err)
	require.NotNil(t, h)

	r, ok := h.(Reporter)
	require.True(t, ok)
	r.AddBreadcrumb("boot", "lifecycle", "info")
	r.SetUser("1", "a@example.com", "alice")
	r.CaptureError(assert.AnError, map[string]any{"k": "v"})

	assert.True(t, h.Flush(time.Second))
}
