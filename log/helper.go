// Package log provides the logging facade of the desktop core.
//
// It wraps the kratos log interface over a zerolog sink and exposes package
// level helpers. Before Init is called the helpers write plain lines to stderr.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	kconf "github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConfigKey is the kratos config key holding Options.
const ConfigKey = "lynx.desktop.log"

// MessageKey is the key Infow treats as the message.
const MessageKey = "msg"

// Options configures the logger.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`
	// Console enables human-readable output on stdout.
	Console bool `json:"console"`
	// File enables rotating JSON output to the given path.
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// DefaultOptions returns console logging at info level.
func DefaultOptions() Options {
	return Options{
		Level:      "info",
		Console:    true,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// installed pairs a logger with its helper so both swap together.
type installed struct {
	logger log.Logger
	helper *log.Helper
}

var (
	// current is nil until Init or SetLogger.
	current atomic.Pointer[installed]

	closerMu sync.Mutex
	closer   io.Closer
)

// Override adjusts the scanned options before the logger is built.
type Override func(*Options)

// WithLevel forces the level, ignoring the configured one. An empty level is a no-op.
func WithLevel(level string) Override {
	return func(o *Options) {
		if level != "" {
			o.Level = level
		}
	}
}

// Init builds the logger from the options found under ConfigKey in cfg
// (DefaultOptions when cfg is nil or the key is absent), applies overrides,
// and installs it. A malformed section is an error.
func Init(name, id, version string, cfg kconf.Config, overrides ...Override) (log.Logger, error) {
	if name == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}

	opts := DefaultOptions()
	if cfg != nil {
		if err := cfg.Value(ConfigKey).Scan(&opts); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("scan %s: %w", ConfigKey, err)
		}
	}
	for _, o := range overrides {
		o(&opts)
	}
	return InitWithOptions(name, id, version, opts)
}

// InitWithOptions builds and installs a logger from explicit options.
func InitWithOptions(name, id, version string, opts Options) (log.Logger, error) {
	var writers []io.Writer
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	var fileWriter *lumberjack.Logger
	if opts.File != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		writers = append(writers, fileWriter)
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	lvl := log.ParseLevel(strings.ToUpper(opts.Level))

	logger := log.With(
		log.NewFilter(zeroLogger{logger: zl}, log.FilterLevel(lvl)),
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", name,
		"service.version", version,
	)
	SetLogger(logger)

	closerMu.Lock()
	prev := closer
	if fileWriter != nil {
		closer = fileWriter
	} else {
		closer = nil
	}
	closerMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	return logger, nil
}

// SetLogger installs l as the global logger. Tests use it to capture output.
func SetLogger(l log.Logger) {
	if l == nil {
		current.Store(nil)
		return
	}
	current.Store(&installed{logger: l, helper: log.NewHelper(l)})
}

func helper() *log.Helper {
	if c := current.Load(); c != nil {
		return c.helper
	}
	return nil
}

// Logger returns the installed logger, or a stderr logger when none is installed.
func Logger() log.Logger {
	if c := current.Load(); c != nil {
		return c.logger
	}
	return log.NewStdLogger(os.Stderr)
}

// Cleanup closes the file writer, if any. Call it last during shutdown.
func Cleanup() error {
	closerMu.Lock()
	c := closer
	closer = nil
	closerMu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

func isNotFound(err error) bool {
	return errors.Is(err, kconf.ErrNotFound)
}

func fallback(level, msg string) {
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	_, _ = fmt.Fprintf(os.Stderr, "[%s] [%s] [desktop-log-fallback] %s\n", ts, level, msg)
}

// Debug logs at debug level.
func Debug(a ...any) {
	if h := helper(); h != nil {
		h.Debug(a...)
	}
}

// Debugf logs at debug level.
func Debugf(format string, a ...any) {
	if h := helper(); h != nil {
		h.Debugf(format, a...)
	}
}

// Info logs at info level.
func Info(a ...any) {
	if h := helper(); h != nil {
		h.Info(a...)
	} else {
		fallback("INFO", fmt.Sprint(a...))
	}
}

// Infof logs at info level.
func Infof(format string, a ...any) {
	if h := helper(); h != nil {
		h.Infof(format, a...)
	} else {
		fallback("INFO", fmt.Sprintf(format, a...))
	}
}

// Infow logs key/value pairs at info level.
func Infow(keyvals ...any) {
	if h := helper(); h != nil {
		h.Infow(keyvals...)
	} else {
		fallback("INFO", fmt.Sprint(keyvals...))
	}
}

// Warn logs at warn level.
func Warn(a ...any) {
	if h := helper(); h != nil {
		h.Warn(a...)
	} else {
		fallback("WARN", fmt.Sprint(a...))
	}
}

// Warnf logs at warn level.
func Warnf(format string, a ...any) {
	if h := helper(); h != nil {
		h.Warnf(format, a...)
	} else {
		fallback("WARN", fmt.Sprintf(format, a...))
	}
}

// Error logs at error level.
func Error(a ...any) {
	if h := helper(); h != nil {
		h.Error(a...)
	} else {
		fallback("ERROR", fmt.Sprint(a...))
	}
}

// Errorf logs at error level.
func Errorf(format string, a ...any) {
	if h := helper(); h != nil {
		h.Errorf(format, a...)
	} else {
		fallback("ERROR", fmt.Sprintf(format, a...))
	}
}
