// Package filesystem is the capability unit that owns the application's
// per-user data directory. Units registered after it store their files there.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/log"
	"github.com/go-lynx/desktop/plugins"
)

const (
	// Name identifies the unit.
	Name = "filesystem"
	// ResourceDataDir is the string resource holding the data directory.
	ResourceDataDir = "filesystem.data_dir"

	description = "per-user application data directory"
)

func init() {
	factory.GlobalPluginFactory().RegisterPlugin(Name, func() plugins.Plugin {
		return New()
	})
}

// Plugin resolves and creates the data directory.
type Plugin struct {
	plugins.Base
	baseDir func() (string, error)
	dir     string
}

// New returns a unit rooted at os.UserConfigDir.
func New() *Plugin {
	return &Plugin{
		Base:    plugins.NewBase(Name, description),
		baseDir: os.UserConfigDir,
	}
}

// NewAt returns a unit rooted at base instead of the user config directory.
// Portable installs and tests use it.
func NewAt(base string) *Plugin {
	p := New()
	p.baseDir = func() (string, error) { return base, nil }
	return p
}

// Init creates <base>/<app name> and publishes it as ResourceDataDir.
func (p *Plugin) Init(h plugins.Host) error {
	base, err := p.baseDir()
	if err != nil {
		return fmt.Errorf("resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, h.AppName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := h.SetResource(ResourceDataDir, dir); err != nil {
		return err
	}
	p.dir = dir
	log.Debugf("filesystem data dir: %s", dir)
	return nil
}

// DataDir returns the directory resolved by Init.
func (p *Plugin) DataDir() string {
	return p.dir
}

// DataDir returns the data directory published on h.
func DataDir(h plugins.Host) (string, error) {
	return plugins.GetResource[string](h, ResourceDataDir)
}
