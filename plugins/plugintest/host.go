// Package plugintest provides test doubles for capability unit tests.
package plugintest

import (
	"sync"

	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/plugins"
)

// Host is an in-memory plugins.Host.
type Host struct {
	Name string
	Cfg  conf.Config

	mu        sync.Mutex
	resources map[string]any
}

// NewHost returns a Host for app name with the neutral configuration.
func NewHost(name string) *Host {
	return &Host{Name: name, Cfg: conf.New(), resources: make(map[string]any)}
}

func (h *Host) AppName() string     { return h.Name }
func (h *Host) Config() conf.Config { return h.Cfg }

func (h *Host) Resource(name string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.resources[name]
	return v, ok
}

func (h *Host) SetResource(name string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.resources[name]; ok {
		return &plugins.ResourceError{Name: name, Err: plugins.ErrResourceExists}
	}
	h.resources[name] = value
	return nil
}

// Recorder is a plugins.Builder that records registrations in order.
type Recorder struct {
	mu      sync.Mutex
	plugins []plugins.Plugin
	// Err, when set, is returned by Register for the plugin named FailOn.
	FailOn string
	Err    error
}

func (r *Recorder) Register(p plugins.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil && p.Name() == r.FailOn {
		return r.Err
	}
	r.plugins = append(r.plugins, p)
	return nil
}

// Names returns the names of the registered plugins in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.plugins))
	for _, p := range r.plugins {
		names = append(names, p.Name())
	}
	return names
}
