// Package desktop bootstraps desktop applications built on a plugin host.
//
// It registers the core capability units (filesystem, sql, updater, shell,
// dialog, opener, process) onto a host builder in a fixed order and, when a
// crash-reporting endpoint is configured, opens the crash-reporting guard
// before any unit is registered.
//
// # Quick Start
//
//	func main() {
//	    b, g, err := desktop.CreateBuilder(host.WithName("my-app"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer g.Close(2 * time.Second)
//
//	    if err := b.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Explicit configuration
//
//	cfg := conf.New().
//	    WithEndpoint("https://key@o0.ingest.sentry.io/0").
//	    WithSampleRate(0.5)
//	m := guard.NewManager(guard.NewSentryBackend("production"))
//	defer m.Close(2 * time.Second)
//	b, _, err := desktop.WithFullBootstrap(host.New(), m, cfg)
//
// # Build-time inputs
//
// Release builds are compiled with `-tags release`; the endpoint and version
// are linked in with `-ldflags -X`, see package buildinfo.
package desktop
