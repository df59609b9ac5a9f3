package host

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/plugins"
)

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, s)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

type stubPlugin struct {
	plugins.Base
	j        *journal
	initErr  error
	closeErr error
	panics   bool
}

func newStub(name string, j *journal) *stubPlugin {
	return &stubPlugin{Base: plugins.NewBase(name, "stub"), j: j}
}

func (p *stubPlugin) Init(h plugins.Host) error {
	if p.panics {
		panic("exploded")
	}
	p.j.add("init:" + p.Name())
	if p.initErr != nil {
		return p.initErr
	}
	return h.SetResource(p.Name(), true)
}

func (p *stubPlugin) Close() error {
	p.j.add("close:" + p.Name())
	return p.closeErr
}

func newTestBuilder() *Builder {
	return New(WithName("test-app"), WithSignals())
}

func TestRegisterKeepsOrder(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, b.Register(newStub(name, j)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, b.Names())
	assert.Len(t, b.Plugins(), 3)
}

func TestRegisterRejectsDuplicatesAndNil(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	require.NoError(t, b.Register(newStub("a", j)))

	assert.ErrorIs(t, b.Register(newStub("a", j)), ErrDuplicatePlugin)
	assert.ErrorIs(t, b.Register(nil), ErrNilPlugin)
	assert.Equal(t, []string{"a"}, b.Names())
}

func TestStartInitializesInOrderAndShutdownReverses(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, b.Register(newStub(name, j)))
	}

	require.NoError(t, b.Start(context.Background()))
	v, ok := b.Resource("b")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	require.NoError(t, b.Shutdown())
	assert.Equal(t, []string{"init:a", "init:b", "init:c", "close:c", "close:b", "close:a"}, j.list())

	// second shutdown closes nothing
	require.NoError(t, b.Shutdown())
	assert.Len(t, j.list(), 6)
}

func TestStartFailureClosesInitialized(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	bad := newStub("b", j)
	bad.initErr = errors.New("no disk")
	require.NoError(t, b.Register(newStub("a", j)))
	require.NoError(t, b.Register(bad))
	require.NoError(t, b.Register(newStub("c", j)))

	err := b.Start(context.Background())
	require.Error(t, err)
	var pe *plugins.PluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "b", pe.Plugin)
	assert.Equal(t, "init", pe.Op)
	assert.Equal(t, []string{"init:a", "init:b", "close:a"}, j.list())
}

func TestStartRecoversPanics(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	p := newStub("a", j)
	p.panics = true
	require.NoError(t, b.Register(p))

	err := b.Start(context.Background())
	assert.ErrorContains(t, err, "panic: exploded")
}

func TestShutdownJoinsCloseErrors(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	a := newStub("a", j)
	a.closeErr = errors.New("a busy")
	c := newStub("c", j)
	c.closeErr = errors.New("c busy")
	for _, p := range []plugins.Plugin{a, newStub("b", j), c} {
		require.NoError(t, b.Register(p))
	}
	require.NoError(t, b.Start(context.Background()))

	err := b.Shutdown()
	assert.ErrorContains(t, err, "a busy")
	assert.ErrorContains(t, err, "c busy")
	assert.Equal(t, []string{"init:a", "init:b", "init:c", "close:c", "close:b", "close:a"}, j.list())
}

func TestSetupRunsAfterPlugins(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	require.NoError(t, b.Register(newStub("a", j)))
	b.Setup(func(h plugins.Host) error {
		_, ok := h.Resource("a")
		assert.True(t, ok)
		j.add("setup")
		return nil
	})

	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Shutdown())
	assert.Equal(t, []string{"init:a", "setup", "close:a"}, j.list())
}

func TestSetupFailureShutsDown(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	require.NoError(t, b.Register(newStub("a", j)))
	b.Setup(func(plugins.Host) error { return errors.New("window failed") })

	err := b.Start(context.Background())
	assert.ErrorContains(t, err, "window failed")
	assert.Equal(t, []string{"init:a", "close:a"}, j.list())
}

func TestStartTwiceAndRegisterAfterStart(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	require.NoError(t, b.Start(context.Background()))

	assert.ErrorIs(t, b.Start(context.Background()), ErrAlreadyRunning)
	assert.ErrorIs(t, b.Register(newStub("late", j)), ErrAlreadyRunning)
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	j := &journal{}
	b := newTestBuilder()
	require.NoError(t, b.Register(newStub("a", j)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, ok := b.Resource("a")
		return ok
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"init:a", "close:a"}, j.list())
}

func TestHostAccessors(t *testing.T) {
	cfg := conf.New().WithEndpoint("https://k@example.com/1")
	b := New(WithName("demo"), WithConfig(cfg))

	assert.Equal(t, "demo", b.AppName())
	assert.Equal(t, cfg, b.Config())
	assert.NotEmpty(t, b.ID())
	assert.NotEqual(t, b.ID(), New().ID())

	require.NoError(t, b.SetResource("x", 1))
	assert.ErrorIs(t, b.SetResource("x", 2), plugins.ErrResourceExists)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "15 ms", formatElapsed(15*time.Millisecond))
	assert.Equal(t, "1.50 s", formatElapsed(1500*time.Millisecond))
	assert.Equal(t, "2.00 m", formatElapsed(2*time.Minute))
}
