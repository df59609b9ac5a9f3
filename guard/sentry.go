package guard

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryBackend opens clients with sentry-go.
type SentryBackend struct {
	// Environment is reported with every event, e.g. "production".
	Environment string
	// BindGlobal also binds the client to sentry.CurrentHub so that the
	// package-level sentry functions report through it.
	BindGlobal bool
}

// NewSentryBackend returns a SentryBackend with the given environment.
func NewSentryBackend(environment string) *SentryBackend {
	return &SentryBackend{Environment: environment}
}

// Open implements Backend.
func (b *SentryBackend) Open(opts Options) (Handle, error) {
	client, err := sentry.NewClient(b.clientOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("create sentry client: %w", err)
	}
	hub := sentry.NewHub(client, sentry.NewScope())
	if b.BindGlobal {
		sentry.CurrentHub().BindClient(client)
	}
	return &sentryHandle{hub: hub}, nil
}

func (b *SentryBackend) clientOptions(opts Options) sentry.ClientOptions {
	co := sentry.ClientOptions{
		Dsn:         opts.Endpoint,
		SampleRate:  opts.SampleRate,
		Release:     opts.Release,
		Environment: b.Environment,
	}
	// sentry-go reads a zero sample rate as "send everything".
	if opts.SampleRate == 0 {
		co.BeforeSend = dropEvent
	}
	return co
}

func dropEvent(*sentry.Event, *sentry.EventHint) *sentry.Event {
	return nil
}

// sentryHandle is the Handle returned by SentryBackend.
type sentryHandle struct {
	hub *sentry.Hub
}

func (h *sentryHandle) Flush(timeout time.Duration) bool {
	return h.hub.Flush(timeout)
}

func (h *sentryHandle) CaptureError(err error, extra map[string]any) {
	h.hub.WithScope(func(scope *sentry.Scope) {
		if len(extra) > 0 {
			scope.SetContext("additional", sentry.Context(extra))
		}
		h.hub.CaptureException(err)
	})
}

func (h *sentryHandle) AddBreadcrumb(message, category, level string) {
	h.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Message:   message,
		Category:  category,
		Level:     sentry.Level(level),
		Timestamp: time.Now(),
	}, nil)
}

func (h *sentryHandle) SetUser(id, email, username string) {
	if id == "" && email == "" && username == "" {
		h.hub.Scope().SetUser(sentry.User{})
		return
	}
	h.hub.Scope().SetUser(sentry.User{ID: id, Email: email, Username: username})
}
