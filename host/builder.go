// Package host provides the default host application builder.
//
// A Builder collects capability units, initializes them in registration order,
// keeps them alive while the application runs, and closes them in reverse
// order on shutdown. Hosts that own their own event loop call Start and
// Shutdown directly; everything else calls Run.
package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/log"
	"github.com/go-lynx/desktop/plugins"
)

const tracerName = "github.com/go-lynx/desktop/host"

var (
	// ErrNilPlugin is returned when registering a nil plugin.
	ErrNilPlugin = errors.New("plugin is nil")
	// ErrDuplicatePlugin is returned when a plugin name is registered twice.
	ErrDuplicatePlugin = errors.New("plugin already registered")
	// ErrAlreadyRunning is returned by Register, Start and Run once the host has started.
	ErrAlreadyRunning = errors.New("host already started")
)

// SetupFunc runs after every plugin is initialized and before the host reports
// itself started.
type SetupFunc func(h plugins.Host) error

// Builder is the default plugins.Builder and plugins.Host.
type Builder struct {
	name    string
	id      string
	cfg     conf.Config
	signals []os.Signal
	setup   []SetupFunc

	mu          sync.RWMutex
	registered  []plugins.Plugin
	names       map[string]struct{}
	resources   map[string]any
	initialized []plugins.Plugin
	started     bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithName sets the application name. Defaults to buildinfo.Name().
func WithName(name string) Option {
	return func(b *Builder) {
		b.name = name
	}
}

// WithConfig sets the configuration exposed to plugins. Defaults to conf.New().
func WithConfig(cfg conf.Config) Option {
	return func(b *Builder) {
		b.cfg = cfg
	}
}

// WithSignals sets the signals that stop Run. With no arguments Run only stops
// when its context is done.
func WithSignals(sigs ...os.Signal) Option {
	return func(b *Builder) {
		b.signals = sigs
	}
}

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		name:      buildinfo.Name(),
		id:        uuid.NewString(),
		cfg:       conf.New(),
		signals:   []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		names:     make(map[string]struct{}),
		resources: make(map[string]any),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register implements plugins.Builder. Plugins are initialized in the order
// they are registered; a name can be registered once.
func (b *Builder) Register(p plugins.Plugin) error {
	if p == nil {
		return ErrNilPlugin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return ErrAlreadyRunning
	}
	if _, exists := b.names[p.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
	}
	b.names[p.Name()] = struct{}{}
	b.registered = append(b.registered, p)
	log.Debugf("plugin registered: %s", p.Name())
	return nil
}

// Setup adds a hook run after plugin initialization. It returns b for chaining.
func (b *Builder) Setup(fn SetupFunc) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setup = append(b.setup, fn)
	return b
}

// ID returns the instance id of this host.
func (b *Builder) ID() string {
	return b.id
}

// Plugins returns the registered plugins in registration order.
func (b *Builder) Plugins() []plugins.Plugin {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]plugins.Plugin(nil), b.registered...)
}

// Names returns the registered plugin names in registration order.
func (b *Builder) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.registered))
	for _, p := range b.registered {
		names = append(names, p.Name())
	}
	return names
}

// AppName implements plugins.Host.
func (b *Builder) AppName() string {
	return b.name
}

// Config implements plugins.Host.
func (b *Builder) Config() conf.Config {
	return b.cfg
}

// Resource implements plugins.Host.
func (b *Builder) Resource(name string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.resources[name]
	return v, ok
}

// SetResource implements plugins.Host.
func (b *Builder) SetResource(name string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.resources[name]; exists {
		return &plugins.ResourceError{Name: name, Err: plugins.ErrResourceExists}
	}
	b.resources[name] = value
	return nil
}

// Start initializes the registered plugins in order and runs the setup hooks.
// On failure the plugins already initialized are closed again.
func (b *Builder) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return ErrAlreadyRunning
	}
	b.started = true
	pending := append([]plugins.Plugin(nil), b.registered...)
	setup := append([]SetupFunc(nil), b.setup...)
	b.mu.Unlock()

	startTime := time.Now()
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "host.start", trace.WithAttributes(
		attribute.String("app.name", b.name),
		attribute.String("app.id", b.id),
	))
	defer span.End()

	for _, p := range pending {
		if err := b.initPlugin(ctx, tracer, p); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "plugin init failed")
			return errors.Join(err, b.Shutdown())
		}
	}
	for _, fn := range setup {
		if err := fn(b); err != nil {
			err = fmt.Errorf("setup hook: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "setup failed")
			return errors.Join(err, b.Shutdown())
		}
	}

	log.Infow(
		log.MessageKey, "host started",
		"app", b.name,
		"plugins", len(pending),
		"elapsed", formatElapsed(time.Since(startTime)),
	)
	return nil
}

func (b *Builder) initPlugin(ctx context.Context, tracer trace.Tracer, p plugins.Plugin) (err error) {
	_, span := tracer.Start(ctx, "plugin.init", trace.WithAttributes(attribute.String("plugin.name", p.Name())))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = &plugins.PluginError{Plugin: p.Name(), Op: "init", Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "init failed")
		}
	}()

	if err := p.Init(b); err != nil {
		return &plugins.PluginError{Plugin: p.Name(), Op: "init", Err: err}
	}
	b.mu.Lock()
	b.initialized = append(b.initialized, p)
	b.mu.Unlock()
	log.Debugf("plugin initialized: %s", p.Name())
	return nil
}

// Shutdown closes the initialized plugins in reverse order and returns the
// joined close errors. It is safe to call more than once.
func (b *Builder) Shutdown() error {
	b.mu.Lock()
	initialized := b.initialized
	b.initialized = nil
	b.mu.Unlock()

	var errs []error
	for i := len(initialized) - 1; i >= 0; i-- {
		if err := closePlugin(initialized[i]); err != nil {
			log.Errorf("close plugin %s: %v", initialized[i].Name(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closePlugin(p plugins.Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &plugins.PluginError{Plugin: p.Name(), Op: "close", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := p.Close(); err != nil {
		return &plugins.PluginError{Plugin: p.Name(), Op: "close", Err: err}
	}
	return nil
}

// Run starts the host, blocks until ctx is done or a configured signal
// arrives, then shuts down.
func (b *Builder) Run(ctx context.Context) error {
	if len(b.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, b.signals...)
		defer stop()
	}
	if err := b.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	log.Infof("%s shutting down", b.name)
	if err := b.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown completed")
	return nil
}

func formatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 1000:
		return fmt.Sprintf("%d ms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.2f s", float64(ms)/1000)
	default:
		return fmt.Sprintf("%.2f m", float64(ms)/1000/60)
	}
}
