// Package plugins defines the capability units a desktop host registers and
// the host state they initialize into.
//
// A capability unit is created by a factory function, handed to a Builder
// exactly once, and initialized by the host in registration order. Units
// registered later may rely on resources published by earlier ones.
package plugins

import (
	"github.com/go-lynx/desktop/conf"
)

// Plugin is a self-initializing capability unit.
type Plugin interface {
	// Name is the unique identity of the unit, e.g. "filesystem".
	Name() string
	// Description is a human-readable summary.
	Description() string
	// Init acquires whatever shared host state the unit owns.
	Init(host Host) error
	// Close releases what Init acquired. Called in reverse registration order.
	Close() error
}

// Host is the shared state capability units initialize into.
type Host interface {
	// AppName names the application; units use it for per-app paths.
	AppName() string
	// Config returns the bootstrap configuration.
	Config() conf.Config
	// Resource returns a value published by a previously initialized unit.
	Resource(name string) (any, bool)
	// SetResource publishes a value. Names are unique per host.
	SetResource(name string, value any) error
}

// Builder accepts capability units. Implementations decide how duplicate
// registrations are handled.
type Builder interface {
	Register(p Plugin) error
}

// Base carries the metadata every unit has. Embed it and override Init/Close.
type Base struct {
	name        string
	description string
}

// NewBase returns a Base with the given metadata.
func NewBase(name, description string) Base {
	return Base{name: name, description: description}
}

func (b Base) Name() string        { return b.name }
func (b Base) Description() string { return b.description }

// Init does nothing.
func (b Base) Init(Host) error { return nil }

// Close does nothing.
func (b Base) Close() error { return nil }

// GetResource returns the resource name from h as a T.
func GetResource[T any](h Host, name string) (T, error) {
	var zero T
	v, ok := h.Resource(name)
	if !ok {
		return zero, &ResourceError{Name: name, Err: ErrResourceNotFound}
	}
	t, ok := v.(T)
	if !ok {
		return zero, &ResourceError{Name: name, Err: ErrInvalidResourceType}
	}
	return t, nil
}
