package desktop

import (
	"fmt"

	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/guard"
	"github.com/go-lynx/desktop/host"
	"github.com/go-lynx/desktop/log"
	"github.com/go-lynx/desktop/plugins"
	"github.com/go-lynx/desktop/plugins/dialog"
	"github.com/go-lynx/desktop/plugins/filesystem"
	"github.com/go-lynx/desktop/plugins/opener"
	"github.com/go-lynx/desktop/plugins/process"
	"github.com/go-lynx/desktop/plugins/shell"
	"github.com/go-lynx/desktop/plugins/sql"
	"github.com/go-lynx/desktop/plugins/updater"
)

// corePlugins is the registration order. sql depends on filesystem.
var corePlugins = []string{
	filesystem.Name,
	sql.Name,
	updater.Name,
	shell.Name,
	dialog.Name,
	opener.Name,
	process.Name,
}

// CorePlugins returns the names of the core capability units in registration order.
func CorePlugins() []string {
	return append([]string(nil), corePlugins...)
}

// Version returns the version of the desktop core.
func Version() string {
	return buildinfo.Version()
}

// WithCorePlugins registers every core capability unit on b, in order, and
// returns b. The first registration error stops the sequence and is returned.
// Calling it twice on the same builder is a caller error; the builder decides
// how duplicates are reported.
func WithCorePlugins[B plugins.Builder](b B) (B, error) {
	if _, err := RegisterPlugins(factory.GlobalPluginFactory(), corePlugins...)(b); err != nil {
		return b, err
	}
	return b, nil
}

// WithFullBootstrap initializes crash reporting through m with cfg and then
// registers the core plugins on b. A crash-reporting failure stops the
// bootstrap before anything is registered.
//
// The returned guard is nil when cfg has no endpoint. m keeps it as its
// current guard; the caller closes m (or the guard) when the process exits.
func WithFullBootstrap[B plugins.Builder](b B, m *guard.Manager, cfg conf.Config) (B, *guard.Guard, error) {
	g, err := m.Init(cfg)
	if err != nil {
		return b, nil, fmt.Errorf("bootstrap crash reporting: %w", err)
	}
	b, err = WithCorePlugins(b)
	if err != nil {
		return b, g, err
	}
	return b, g, nil
}

// CreateBuilder returns a default host builder with the full bootstrap applied
// to the configuration resolved from the environment.
func CreateBuilder(opts ...host.Option) (*host.Builder, *guard.Guard, error) {
	cfg := conf.ResolveDefault()
	return CreateBuilderWithConfig(cfg, opts...)
}

// CreateBuilderWithConfig is CreateBuilder with an explicit configuration.
func CreateBuilderWithConfig(cfg conf.Config, opts ...host.Option) (*host.Builder, *guard.Guard, error) {
	backend := guard.NewSentryBackend(buildinfo.CurrentMode().String())
	backend.BindGlobal = true
	m := guard.NewManager(backend)

	b := host.New(append([]host.Option{host.WithConfig(cfg)}, opts...)...)
	b, g, err := WithFullBootstrap(b, m, cfg)
	if err != nil {
		m.Close(guard.DefaultReplaceTimeout)
		return nil, nil, err
	}
	log.Infof("desktop core %s bootstrapped: plugins=%v devtools=%t", Version(), b.Names(), cfg.Devtools)
	return b, g, nil
}
