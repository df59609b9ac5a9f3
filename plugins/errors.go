package plugins

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound indicates that no unit has published the resource yet.
	ErrResourceNotFound = errors.New("plugin resource not found")

	// ErrResourceExists indicates that a resource name is already taken.
	ErrResourceExists = errors.New("plugin resource already exists")

	// ErrInvalidResourceType indicates that a resource is not of the requested type.
	ErrInvalidResourceType = errors.New("invalid plugin resource type")
)

// ResourceError wraps a resource failure with the resource name.
type ResourceError struct {
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %q: %v", e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// PluginError wraps a failure of a capability unit with its name and the
// lifecycle step that failed.
type PluginError struct {
	Plugin string
	Op     string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s %s: %v", e.Plugin, e.Op, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}
