// Package conf resolves the bootstrap configuration of a desktop application.
//
// A Config is a plain value. It is built either explicitly with New and the
// With* mutators, or from the environment and build-time inputs with
// ResolveDefault. Load overlays a kratos configuration source on top of the
// resolved defaults.
package conf

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"

	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/log"
)

// Prefix is the configuration key the desktop core reads from a kratos config.
const Prefix = "lynx.desktop"

// DefaultSampleRate is the sample rate used when none is configured.
const DefaultSampleRate = 1.0

// Config holds the bootstrap settings.
type Config struct {
	// Endpoint is the crash-reporting DSN. Empty means reporting is disabled.
	Endpoint string
	// SampleRate is passed to the backend unchanged in release builds.
	// No range check is performed.
	SampleRate float64
	// Devtools enables the host's developer tools.
	Devtools bool
}

// New returns the neutral configuration used for explicit construction.
func New() Config {
	return Config{
		SampleRate: DefaultSampleRate,
		Devtools:   true,
	}
}

// environment is the environment layer of ResolveDefault.
type environment struct {
	SentryDSN string `env:"LYNX_DESKTOP_SENTRY_DSN"`
}

// ResolveDefault builds a Config from the environment and build-time inputs.
// The endpoint comes from LYNX_DESKTOP_SENTRY_DSN, falling back to the value
// linked into buildinfo. Devtools follow the build mode.
func ResolveDefault() Config {
	c := Config{
		Endpoint:   buildinfo.Endpoint(),
		SampleRate: DefaultSampleRate,
		Devtools:   buildinfo.IsDebug(),
	}
	e, err := env.ParseAs[environment]()
	if err != nil {
		log.Warnf("parse desktop environment: %v", err)
		return c
	}
	if e.SentryDSN != "" {
		c.Endpoint = e.SentryDSN
	}
	return c
}

// WithEndpoint returns a copy of c with the reporting endpoint set.
func (c Config) WithEndpoint(endpoint string) Config {
	c.Endpoint = endpoint
	return c
}

// WithSampleRate returns a copy of c with the sample rate set.
func (c Config) WithSampleRate(rate float64) Config {
	c.SampleRate = rate
	return c
}

// WithDevtools returns a copy of c with devtools enabled or disabled.
func (c Config) WithDevtools(enable bool) Config {
	c.Devtools = enable
	return c
}

// ReportingEnabled reports whether a crash-reporting endpoint is configured.
func (c Config) ReportingEnabled() bool {
	return c.Endpoint != ""
}

// fileConfig mirrors the keys under Prefix. Pointers tell unset keys apart
// from zero values.
type fileConfig struct {
	SentryDSN        *string  `json:"sentry_dsn"`
	SentrySampleRate *float64 `json:"sentry_sample_rate"`
	EnableDevtools   *bool    `json:"enable_devtools"`
}

// Load resolves the defaults and overlays the keys found under Prefix in c.
// A missing prefix is not an error.
func Load(c config.Config) (Config, error) {
	resolved := ResolveDefault()
	if c == nil {
		return resolved, nil
	}

	var fc fileConfig
	if err := c.Value(Prefix).Scan(&fc); err != nil {
		if errors.Is(err, config.ErrNotFound) {
			log.Debugf("no %s configuration found, using defaults", Prefix)
			return resolved, nil
		}
		return resolved, fmt.Errorf("scan %s configuration: %w", Prefix, err)
	}

	if fc.SentryDSN != nil {
		resolved.Endpoint = *fc.SentryDSN
	}
	if fc.SentrySampleRate != nil {
		resolved.SampleRate = *fc.SentrySampleRate
	}
	if fc.EnableDevtools != nil {
		resolved.Devtools = *fc.EnableDevtools
	}
	return resolved, nil
}

// LoadFile reads a YAML/JSON file or directory with the kratos file source and
// calls Load on it. The caller owns the returned kratos config and must Close it.
func LoadFile(path string) (Config, config.Config, error) {
	c := config.New(config.WithSource(file.NewSource(path)))
	if err := c.Load(); err != nil {
		return Config{}, nil, fmt.Errorf("load config %s: %w", path, err)
	}
	resolved, err := Load(c)
	if err != nil {
		_ = c.Close()
		return Config{}, nil, err
	}
	return resolved, c, nil
}
