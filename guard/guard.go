// Package guard owns the crash-reporting client of a desktop process.
//
// A Manager opens at most one live Guard at a time. The guard is handed back
// to the caller, who keeps it alive for the rest of the process and closes it
// on the way out:
//
//	m := guard.NewManager(guard.NewSentryBackend("production"))
//	g, err := m.Init(cfg)
//	if err != nil {
//	    return err
//	}
//	defer m.Close(2 * time.Second)
package guard

import (
	"sync"
	"time"
)

// Guard keeps a crash-reporting session open. The zero value is not usable;
// guards are created by Manager.Init.
type Guard struct {
	opts   Options
	handle Handle

	closeOnce sync.Once
	flushed   bool
}

func newGuard(opts Options, handle Handle) *Guard {
	return &Guard{opts: opts, handle: handle}
}

// Options returns the options the guard was opened with.
func (g *Guard) Options() Options {
	return g.opts
}

// Handle returns the backend handle.
func (g *Guard) Handle() Handle {
	return g.handle
}

// Close flushes pending reports, waiting at most timeout. Only the first call
// flushes; later calls return the first result.
func (g *Guard) Close(timeout time.Duration) bool {
	if g == nil {
		return true
	}
	g.closeOnce.Do(func() {
		g.flushed = g.handle.Flush(timeout)
	})
	return g.flushed
}

// CaptureError reports err with optional extra context. It is a no-op when the
// handle does not implement Reporter or the guard is nil.
func (g *Guard) CaptureError(err error, extra map[string]any) {
	if r, ok := g.reporter(); ok && err != nil {
		r.CaptureError(err, extra)
	}
}

// AddBreadcrumb records a breadcrumb. level is one of debug, info, warning, error.
func (g *Guard) AddBreadcrumb(message, category, level string) {
	if r, ok := g.reporter(); ok {
		r.AddBreadcrumb(message, category, level)
	}
}

// SetUser attaches a user to subsequent reports. An empty id clears it.
func (g *Guard) SetUser(id, email, username string) {
	if r, ok := g.reporter(); ok {
		r.SetUser(id, email, username)
	}
}

func (g *Guard) reporter() (Reporter, bool) {
	if g == nil {
		return nil, false
	}
	r, ok := g.handle.(Reporter)
	return r, ok
}
