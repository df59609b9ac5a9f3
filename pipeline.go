package desktop

import (
	"fmt"

	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/plugins"
)

// Step is one stage of builder composition.
type Step func(b plugins.Builder) (plugins.Builder, error)

// Pipeline returns a Step applying steps in order. It stops at the first error.
func Pipeline(steps ...Step) Step {
	return func(b plugins.Builder) (plugins.Builder, error) {
		var err error
		for _, step := range steps {
			if b, err = step(b); err != nil {
				return b, err
			}
		}
		return b, nil
	}
}

// Register returns a Step registering the given plugins in order.
func Register(ps ...plugins.Plugin) Step {
	return func(b plugins.Builder) (plugins.Builder, error) {
		for i, p := range ps {
			if err := b.Register(p); err != nil {
				if p == nil {
					return b, fmt.Errorf("register plugin #%d: %w", i, err)
				}
				return b, fmt.Errorf("register plugin %s: %w", p.Name(), err)
			}
		}
		return b, nil
	}
}

// RegisterPlugins returns a Step creating each named plugin with creator and
// registering it, in order.
func RegisterPlugins(creator factory.PluginCreator, names ...string) Step {
	return func(b plugins.Builder) (plugins.Builder, error) {
		for _, name := range names {
			p, err := creator.CreatePlugin(name)
			if err != nil {
				return b, fmt.Errorf("create plugin %s: %w", name, err)
			}
			if err := b.Register(p); err != nil {
				return b, fmt.Errorf("register plugin %s: %w", name, err)
			}
		}
		return b, nil
	}
}
