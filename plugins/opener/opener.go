// Package opener is the capability unit that resolves the platform command
// for opening files and URLs with their default application.
package opener

import (
	"runtime"

	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/plugins"
)

const (
	// Name identifies the unit.
	Name = "opener"
	// Resource is the Command resource.
	Resource = "opener.command"

	description = "default application opener"
)

func init() {
	factory.GlobalPluginFactory().RegisterPlugin(Name, func() plugins.Plugin {
		return New()
	})
}

// Command is the program and leading arguments; the target is appended.
type Command struct {
	Program string
	Args    []string
}

// Plugin publishes the Command for the running platform.
type Plugin struct {
	plugins.Base
	goos string
}

// New returns the unit for runtime.GOOS.
func New() *Plugin {
	return &Plugin{Base: plugins.NewBase(Name, description), goos: runtime.GOOS}
}

// Init publishes the Command.
func (p *Plugin) Init(h plugins.Host) error {
	return h.SetResource(Resource, CommandFor(p.goos))
}

// CommandFor returns the opener command for goos.
func CommandFor(goos string) Command {
	switch goos {
	case "darwin":
		return Command{Program: "open"}
	case "windows":
		return Command{Program: "rundll32", Args: []string{"url.dll,FileProtocolHandler"}}
	default:
		return Command{Program: "xdg-open"}
	}
}

// Get returns the Command published on h.
func Get(h plugins.Host) (Command, error) {
	return plugins.GetResource[Command](h, Resource)
}
