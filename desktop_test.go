package desktop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/guard"
	"github.com/go-lynx/desktop/host"
	"github.com/go-lynx/desktop/plugins"
	"github.com/go-lynx/desktop/plugins/plugintest"
	"github.com/go-lynx/desktop/plugins/sql"
)

const testDSN = "https://public@o0.ingest.example.com/1"

var wantOrder = []string{"filesystem", "sql", "updater", "shell", "dialog", "opener", "process"}

// journal records guard and registration events in the order they happen.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, s)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

type journalBuilder struct{ j *journal }

func (b journalBuilder) Register(p plugins.Plugin) error {
	b.j.add("register:" + p.Name())
	return nil
}

type nopHandle struct{}

func (nopHandle) Flush(time.Duration) bool { return true }

func journalBackend(j *journal, err error) guard.Backend {
	return guard.BackendFunc(func(o guard.Options) (guard.Handle, error) {
		if err != nil {
			return nil, err
		}
		j.add("guard:" + o.Endpoint)
		return nopHandle{}, nil
	})
}

func TestCorePluginsOrder(t *testing.T) {
	assert.Equal(t, wantOrder, CorePlugins())

	names := CorePlugins()
	names[0] = "mutated"
	assert.Equal(t, wantOrder, CorePlugins())
}

func TestCorePluginsAreRegisteredInFactory(t *testing.T) {
	for _, name := range CorePlugins() {
		assert.True(t, factory.GlobalPluginFactory().HasPlugin(name), name)
	}
}

func TestWithCorePluginsRegistersEachOnceInOrder(t *testing.T) {
	rec := &plugintest.Recorder{}

	got, err := WithCorePlugins(rec)
	require.NoError(t, err)
	assert.Same(t, rec, got)
	assert.Equal(t, wantOrder, rec.Names())
}

func TestWithCorePluginsPropagatesRegistrationFailure(t *testing.T) {
	boom := errors.New("boom")
	rec := &plugintest.Recorder{FailOn: "updater", Err: boom}

	_, err := WithCorePlugins(rec)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "updater")
	assert.Equal(t, []string{"filesystem", "sql"}, rec.Names())
}

func TestWithCorePluginsTwiceOnHostBuilder(t *testing.T) {
	b := host.New(host.WithSignals())

	_, err := WithCorePlugins(b)
	require.NoError(t, err)
	_, err = WithCorePlugins(b)
	assert.ErrorIs(t, err, host.ErrDuplicatePlugin)
	assert.Equal(t, wantOrder, b.Names())
}

func TestWithFullBootstrapGuardBeforePlugins(t *testing.T) {
	j := &journal{}
	m := guard.NewManager(journalBackend(j, nil), guard.WithMode(buildinfo.Release))

	_, g, err := WithFullBootstrap(journalBuilder{j}, m, conf.New().WithEndpoint(testDSN))
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Same(t, g, m.Current())

	want := []string{"guard:" + testDSN}
	for _, name := range wantOrder {
		want = append(want, "register:"+name)
	}
	assert.Equal(t, want, j.list())
}

func TestWithFullBootstrapWithoutEndpoint(t *testing.T) {
	j := &journal{}
	m := guard.NewManager(journalBackend(j, nil))
	rec := &plugintest.Recorder{}

	got, g, err := WithFullBootstrap(rec, m, conf.New())
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.Nil(t, m.Current())
	assert.Same(t, rec, got)
	assert.Equal(t, wantOrder, rec.Names())
	assert.Empty(t, j.list())
}

func TestWithFullBootstrapStopsOnGuardFailure(t *testing.T) {
	boom := errors.New("backend down")
	m := guard.NewManager(journalBackend(&journal{}, boom))
	rec := &plugintest.Recorder{}

	_, g, err := WithFullBootstrap(rec, m, conf.New().WithEndpoint(testDSN))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, g)
	assert.Empty(t, rec.Names())
}

func TestPipelineStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	step := func(name string, err error) Step {
		return func(b plugins.Builder) (plugins.Builder, error) {
			ran = append(ran, name)
			return b, err
		}
	}

	rec := &plugintest.Recorder{}
	_, err := Pipeline(step("a", nil), step("b", boom), step("c", nil))(rec)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestRegisterStep(t *testing.T) {
	rec := &plugintest.Recorder{}
	_, err := Pipeline(
		Register(plugins.NewBase("custom", "app specific")),
		RegisterPlugins(factory.GlobalPluginFactory(), "dialog"),
	)(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom", "dialog"}, rec.Names())

	_, err = RegisterPlugins(factory.GlobalPluginFactory(), "missing")(rec)
	assert.ErrorIs(t, err, factory.ErrUnknownPlugin)
}

func isolateUserDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)
}

func TestCreateBuilderRunsCorePlugins(t *testing.T) {
	isolateUserDirs(t)

	b, g, err := CreateBuilderWithConfig(conf.New(), host.WithName("desktop-test"), host.WithSignals())
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.Equal(t, wantOrder, b.Names())

	require.NoError(t, b.Start(context.Background()))
	db, err := sql.DB(b)
	require.NoError(t, err)
	assert.NoError(t, db.Ping())
	require.NoError(t, b.Shutdown())
}

func TestCreateBuilderOpensGuard(t *testing.T) {
	isolateUserDirs(t)

	b, g, err := CreateBuilderWithConfig(conf.New().WithEndpoint(testDSN), host.WithSignals())
	require.NoError(t, err)
	require.NotNil(t, g)
	t.Cleanup(func() { g.Close(time.Second) })

	assert.Equal(t, buildinfo.ReleaseName(), g.Options().Release)
	if buildinfo.IsDebug() {
		assert.Equal(t, 0.0, g.Options().SampleRate)
	}
	assert.Equal(t, wantOrder, b.Names())
}

func TestCreateBuilderRejectsInvalidEndpoint(t *testing.T) {
	b, g, err := CreateBuilderWithConfig(conf.New().WithEndpoint("invalid-dsn"))
	assert.Error(t, err)
	assert.Nil(t, b)
	assert.Nil(t, g)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, buildinfo.Version(), Version())
}

func TestRegisterStepRejectsNilPlugin(t *testing.T) {
	b := host.New(host.WithSignals())

	var err error
	assert.NotPanics(t, func() {
		_, err = Register(plugins.NewBase("custom", ""), nil)(b)
	})
	assert.ErrorIs(t, err, host.ErrNilPlugin)
	assert.ErrorContains(t, err, "#1")
	assert.Equal(t, []string{"custom"}, b.Names())
}
