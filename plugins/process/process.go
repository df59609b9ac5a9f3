// Package process is the capability unit exposing control over the running
// process to the application.
package process

import (
	"os"

	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/plugins"
)

const (
	// Name identifies the unit.
	Name = "process"
	// Resource is the Control resource.
	Resource = "process.control"

	description = "process control"
)

func init() {
	factory.GlobalPluginFactory().RegisterPlugin(Name, func() plugins.Plugin {
		return New()
	})
}

// Control exposes the process id and an exit hook.
type Control struct {
	PID  int
	Exit func(code int)
}

// Plugin publishes Control.
type Plugin struct {
	plugins.Base
	exit func(int)
}

// New returns a unit whose exit hook is os.Exit.
func New() *Plugin {
	return &Plugin{Base: plugins.NewBase(Name, description), exit: os.Exit}
}

// Init publishes Control for the current process.
func (p *Plugin) Init(h plugins.Host) error {
	return h.SetResource(Resource, Control{PID: os.Getpid(), Exit: p.exit})
}

// Get returns the Control published on h.
func Get(h plugins.Host) (Control, error) {
	return plugins.GetResource[Control](h, Resource)
}
