package guard

import (
	"time"
)

// Options is what the manager hands to a Backend when opening a client.
type Options struct {
	// Endpoint is the crash-reporting DSN; never empty when passed to a Backend.
	Endpoint string
	// SampleRate is the effective sample rate after the build-mode override.
	SampleRate float64
	// Release identifies the build, e.g. lynx-desktop@1.2.0.
	Release string
}

// Handle is a live crash-reporting client. It must stay reachable until the
// process is about to exit; Flush delivers buffered reports.
type Handle interface {
	Flush(timeout time.Duration) bool
}

// Reporter is implemented by handles that accept reports directly.
type Reporter interface {
	CaptureError(err error, extra map[string]any)
	AddBreadcrumb(message, category, level string)
	SetUser(id, email, username string)
}

// Backend opens crash-reporting clients.
type Backend interface {
	Open(opts Options) (Handle, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(opts Options) (Handle, error)

// Open calls f.
func (f BackendFunc) Open(opts Options) (Handle, error) {
	return f(opts)
}
