// Package updater is the capability unit describing the application's
// update channel. Checking for and installing updates is left to the host.
package updater

import (
	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/plugins"
)

const (
	// Name identifies the unit.
	Name = "updater"
	// Resource is the Info resource.
	Resource = "updater.info"

	description = "application update channel"
)

func init() {
	factory.GlobalPluginFactory().RegisterPlugin(Name, func() plugins.Plugin {
		return New()
	})
}

// Info describes the running build and where updates come from.
type Info struct {
	CurrentVersion string
	Release        string
	Endpoints      []string
}

// Plugin publishes Info.
type Plugin struct {
	plugins.Base
	endpoints []string
}

// New returns a unit with the given update endpoints.
func New(endpoints ...string) *Plugin {
	return &Plugin{
		Base:      plugins.NewBase(Name, description),
		endpoints: endpoints,
	}
}

// Init publishes Info for the running build.
func (p *Plugin) Init(h plugins.Host) error {
	return h.SetResource(Resource, Info{
		CurrentVersion: buildinfo.Version(),
		Release:        buildinfo.ReleaseName(),
		Endpoints:      append([]string(nil), p.endpoints...),
	})
}

// Get returns the Info published on h.
func Get(h plugins.Host) (Info, error) {
	return plugins.GetResource[Info](h, Resource)
}
