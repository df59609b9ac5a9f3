// Package factory maps capability unit names to the functions that create them.
//
// Capability unit packages register their creator from init, so importing a
// unit package is enough to make it creatable by name.
package factory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-lynx/desktop/plugins"
)

// ErrUnknownPlugin is returned by CreatePlugin for unregistered names.
var ErrUnknownPlugin = errors.New("plugin not registered")

var (
	globalOnce    sync.Once
	globalFactory *LynxPluginFactory
)

// PluginFactory combines plugin creation and registration.
type PluginFactory interface {
	PluginCreator
	PluginRegistry
}

// PluginCreator creates plugin instances by name.
type PluginCreator interface {
	// CreatePlugin returns a new instance of the named plugin.
	CreatePlugin(name string) (plugins.Plugin, error)
}

// PluginRegistry manages plugin registrations.
type PluginRegistry interface {
	// RegisterPlugin adds a creator. Panics if the name is already registered.
	RegisterPlugin(name string, creator func() plugins.Plugin)
	// UnregisterPlugin removes a creator.
	UnregisterPlugin(name string)
	// HasPlugin reports whether name is registered.
	HasPlugin(name string) bool
	// Names returns registered names in registration order.
	Names() []string
}

// GlobalPluginFactory returns the process-wide factory unit packages register into.
func GlobalPluginFactory() PluginFactory {
	globalOnce.Do(func() {
		globalFactory = NewPluginFactory()
	})
	return globalFactory
}

// LynxPluginFactory implements PluginFactory. It is safe for concurrent use.
type LynxPluginFactory struct {
	mu       sync.RWMutex
	order    []string
	creators map[string]func() plugins.Plugin
}

// NewPluginFactory returns an empty factory.
func NewPluginFactory() *LynxPluginFactory {
	return &LynxPluginFactory{
		creators: make(map[string]func() plugins.Plugin),
	}
}

// RegisterPlugin registers creator under name.
// Panics if the name is empty, the creator is nil, or the name is taken.
func (f *LynxPluginFactory) RegisterPlugin(name string, creator func() plugins.Plugin) {
	if name == "" || creator == nil {
		panic(fmt.Errorf("invalid plugin registration: name=%q", name))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.creators[name]; exists {
		panic(fmt.Errorf("plugin already registered: %s", name))
	}
	f.creators[name] = creator
	f.order = append(f.order, name)
}

// UnregisterPlugin removes name from the factory.
func (f *LynxPluginFactory) UnregisterPlugin(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.creators[name]; !exists {
		return
	}
	delete(f.creators, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// HasPlugin reports whether name is registered.
func (f *LynxPluginFactory) HasPlugin(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

// Names returns a copy of the registered names in registration order.
func (f *LynxPluginFactory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.order...)
}

// CreatePlugin creates a new instance of the named plugin.
func (f *LynxPluginFactory) CreatePlugin(name string) (plugins.Plugin, error) {
	f.mu.RLock()
	creator, exists := f.creators[name]
	f.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}
	p := creator()
	if p == nil {
		return nil, fmt.Errorf("creator for plugin %s returned nil", name)
	}
	return p, nil
}
