// Package shell is the capability unit that resolves the user's shell for
// commands the application runs.
package shell

import (
	"os"
	"runtime"

	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/plugins"
)

const (
	// Name identifies the unit.
	Name = "shell"
	// Resource is the Shell resource.
	Resource = "shell.program"

	description = "user shell for spawned commands"
)

func init() {
	factory.GlobalPluginFactory().RegisterPlugin(Name, func() plugins.Plugin {
		return New()
	})
}

// Shell is the program and argument prefix used to run a command line.
type Shell struct {
	Program string
	Args    []string
}

// Plugin publishes the resolved Shell.
type Plugin struct {
	plugins.Base
	getenv func(string) string
	goos   string
}

// New returns a unit resolving the shell from the environment.
func New() *Plugin {
	return &Plugin{
		Base:   plugins.NewBase(Name, description),
		getenv: os.Getenv,
		goos:   runtime.GOOS,
	}
}

// Init publishes the resolved Shell.
func (p *Plugin) Init(h plugins.Host) error {
	return h.SetResource(Resource, p.resolve())
}

func (p *Plugin) resolve() Shell {
	if p.goos == "windows" {
		program := p.getenv("ComSpec")
		if program == "" {
			program = "cmd.exe"
		}
		return Shell{Program: program, Args: []string{"/C"}}
	}
	program := p.getenv("SHELL")
	if program == "" {
		program = "/bin/sh"
	}
	return Shell{Program: program, Args: []string{"-c"}}
}

// Get returns the Shell published on h.
func Get(h plugins.Host) (Shell, error) {
	return plugins.GetResource[Shell](h, Resource)
}
