// Package dialog is the capability unit holding the defaults for native
// dialogs. Showing dialogs is the host's job.
package dialog

import (
	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/plugins"
)

const (
	// Name identifies the unit.
	Name = "dialog"
	// Resource is the Defaults resource.
	Resource = "dialog.defaults"

	description = "native dialog defaults"
)

func init() {
	factory.GlobalPluginFactory().RegisterPlugin(Name, func() plugins.Plugin {
		return New()
	})
}

// Defaults apply to every dialog unless overridden.
type Defaults struct {
	Title string
}

// Plugin publishes Defaults.
type Plugin struct {
	plugins.Base
}

// New returns the unit.
func New() *Plugin {
	return &Plugin{Base: plugins.NewBase(Name, description)}
}

// Init publishes Defaults titled after the application.
func (p *Plugin) Init(h plugins.Host) error {
	return h.SetResource(Resource, Defaults{Title: h.AppName()})
}

// Get returns the Defaults published on h.
func Get(h plugins.Host) (Defaults, error) {
	return plugins.GetResource[Defaults](h, Resource)
}
