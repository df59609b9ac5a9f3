package guard

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/log"
)

// ErrNilHandle is returned when a Backend reports success without a handle.
var ErrNilHandle = errors.New("crash reporting backend returned a nil handle")

// DefaultReplaceTimeout bounds the flush of a guard replaced by a later Init.
const DefaultReplaceTimeout = 2 * time.Second

// Manager opens guards and keeps the current one in a single slot.
// All slot access is atomic, so concurrent Init calls do not race and readers
// only ever observe fully constructed guards.
type Manager struct {
	backend        Backend
	mode           buildinfo.Mode
	release        string
	replaceTimeout time.Duration

	slot atomic.Pointer[Guard]
}

// Option configures a Manager.
type Option func(*Manager)

// WithMode overrides the build mode used for the sample-rate rule.
func WithMode(mode buildinfo.Mode) Option {
	return func(m *Manager) {
		m.mode = mode
	}
}

// WithRelease overrides the release identifier sent to the backend.
func WithRelease(release string) Option {
	return func(m *Manager) {
		m.release = release
	}
}

// WithReplaceTimeout sets how long a replaced guard may take to flush.
func WithReplaceTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.replaceTimeout = d
	}
}

// NewManager returns a Manager opening clients through backend.
func NewManager(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend:        backend,
		mode:           buildinfo.CurrentMode(),
		release:        buildinfo.ReleaseName(),
		replaceTimeout: DefaultReplaceTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EffectiveSampleRate applies the build-mode override: debug builds never
// transmit, release builds use rate verbatim.
func EffectiveSampleRate(mode buildinfo.Mode, rate float64) float64 {
	if mode == buildinfo.Debug {
		return 0.0
	}
	return rate
}

// Init opens a crash-reporting client for cfg and stores it as the current guard.
//
// An empty endpoint disables reporting: Init returns nil, nil without calling
// the backend or touching the slot. A backend failure is returned and leaves
// the slot as it was.
//
// Calling Init again replaces the stored guard (last write wins). The replaced
// guard is flushed and closed.
func (m *Manager) Init(cfg conf.Config) (*Guard, error) {
	if !cfg.ReportingEnabled() {
		log.Debug("crash reporting disabled: no endpoint configured")
		return nil, nil
	}

	opts := Options{
		Endpoint:   cfg.Endpoint,
		SampleRate: EffectiveSampleRate(m.mode, cfg.SampleRate),
		Release:    m.release,
	}
	handle, err := m.backend.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open crash reporting client: %w", err)
	}
	if handle == nil {
		return nil, ErrNilHandle
	}

	g := newGuard(opts, handle)
	if prev := m.slot.Swap(g); prev != nil {
		log.Warnf("crash reporting re-initialized, replacing guard for release %s", prev.opts.Release)
		prev.Close(m.replaceTimeout)
	}
	log.Infof("crash reporting enabled: release=%s mode=%s sample_rate=%v", opts.Release, m.mode, opts.SampleRate)
	return g, nil
}

// Current returns the stored guard, or nil.
func (m *Manager) Current() *Guard {
	return m.slot.Load()
}

// Close empties the slot and closes the guard it held. It reports whether
// pending reports were flushed within timeout; true when there was no guard.
func (m *Manager) Close(timeout time.Duration) bool {
	g := m.slot.Swap(nil)
	if g == nil {
		return true
	}
	return g.Close(timeout)
}
