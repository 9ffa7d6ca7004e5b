// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// HandlerType selects the output format.
type HandlerType string

const (
	JSONHandler    HandlerType = "json"
	TextHandler    HandlerType = "text"
	ConsoleHandler HandlerType = "console"
)

// Level is an alias for [slog.Level].
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const redactedValue = "***REDACTED***"

var defaultRedactedKeys = []string{"password", "token", "secret", "api_key", "authorization"}

// ParseLevel converts a level name such as "debug" or "WARN" into a [Level].
func ParseLevel(s string) (Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return lvl, nil
}

// SamplingConfig limits log volume.
//
// The first Initial entries are always written, then one of every Thereafter
// entries. The counter restarts every Tick when Tick is positive. Error
// entries bypass sampling.
type SamplingConfig struct {
	Initial    int
	Thereafter int
	Tick       time.Duration
}

// Logger is a structured logger for validation events.
//
// All methods are safe for concurrent use. A nil *Logger discards everything,
// so components can hold an optional logger without nil checks.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar

	serviceName    string
	serviceVersion string

	addSource    bool
	replaceAttr  func(groups []string, a slog.Attr) slog.Attr
	redactedKeys []string

	sampling      *SamplingConfig
	sampleCounter atomic.Int64
	sampleStop    chan struct{}
	stopOnce      sync.Once

	custom         *slog.Logger
	useCustom      bool
	registerGlobal bool

	slogger  atomic.Pointer[slog.Logger]
	shutdown atomic.Bool
}

// Option configures a [Logger].
type Option func(*Logger)

// New creates a Logger. It writes JSON to stdout at info level unless
// configured otherwise.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{
		handlerType:  JSONHandler,
		output:       os.Stdout,
		redactedKeys: slices.Clone(defaultRedactedKeys),
	}
	l.level.Set(LevelInfo)
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	sl, err := l.build()
	if err != nil {
		return nil, err
	}
	l.slogger.Store(sl)
	if l.registerGlobal {
		slog.SetDefault(sl)
	}

	if l.sampling != nil && l.sampling.Tick > 0 {
		l.sampleStop = make(chan struct{})
		go l.resetSampling(l.sampling.Tick)
	}
	return l, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

// Validate reports configuration errors.
func (l *Logger) Validate() error {
	var errs []error
	if l.useCustom {
		if l.custom == nil {
			errs = append(errs, ErrNilLogger)
		}
	} else if l.output == nil {
		errs = append(errs, errors.New("output writer cannot be nil"))
	}
	if s := l.sampling; s != nil && (s.Initial < 0 || s.Thereafter < 0) {
		errs = append(errs, errors.New("sampling values must be non-negative"))
	}
	return errors.Join(errs...)
}

func (l *Logger) build() (*slog.Logger, error) {
	if l.useCustom {
		return l.custom, nil
	}

	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.redact,
	}
	var h slog.Handler
	switch l.handlerType {
	case JSONHandler:
		h = slog.NewJSONHandler(l.output, opts)
	case TextHandler:
		h = slog.NewTextHandler(l.output, opts)
	case ConsoleHandler:
		h = newConsoleHandler(l.output, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
	}

	sl := slog.New(h)
	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, "service", l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, "version", l.serviceVersion)
	}
	if len(attrs) > 0 {
		sl = sl.With(attrs...)
	}
	return sl, nil
}

func (l *Logger) redact(groups []string, a slog.Attr) slog.Attr {
	if slices.Contains(l.redactedKeys, strings.ToLower(a.Key)) {
		return slog.String(a.Key, redactedValue)
	}
	if l.replaceAttr != nil {
		return l.replaceAttr(groups, a)
	}
	return a
}

func (l *Logger) resetSampling(tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.sampleCounter.Store(0)
		case <-l.sampleStop:
			return
		}
	}
}

func (l *Logger) sampled(level slog.Level) bool {
	if level >= slog.LevelError || l.sampling == nil {
		return true
	}
	n := l.sampleCounter.Add(1)
	if n <= int64(l.sampling.Initial) || l.sampling.Thereafter == 0 {
		return true
	}
	return (n-int64(l.sampling.Initial))%int64(l.sampling.Thereafter) == 0
}

// Logger returns the underlying [slog.Logger]. It returns a discarding
// logger for a nil receiver.
func (l *Logger) Logger() *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.slogger.Load()
}

// With returns a [slog.Logger] carrying args on every entry.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.Logger().With(args...)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if l == nil || l.shutdown.Load() {
		return
	}
	sl := l.slogger.Load()
	if !sl.Enabled(ctx, level) || !l.sampled(level) {
		return
	}
	sl.Log(ctx, level, msg, args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(context.Background(), LevelDebug, msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(context.Background(), LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(context.Background(), LevelWarn, msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(context.Background(), LevelError, msg, args...) }

// LogError logs err at error level. A nil err is ignored.
func (l *Logger) LogError(err error, msg string, args ...any) {
	if err == nil {
		return
	}
	l.log(context.Background(), LevelError, msg, append([]any{"error", err.Error()}, args...)...)
}

// LogDuration logs msg at info level with the time elapsed since start.
func (l *Logger) LogDuration(msg string, start time.Time, args ...any) {
	elapsed := time.Since(start)
	l.log(context.Background(), LevelInfo, msg, append([]any{
		"duration_ms", float64(elapsed.Microseconds()) / 1000,
	}, args...)...)
}

// Shutdown stops the sampling ticker. Entries logged afterwards are dropped.
// It is safe to call more than once.
func (l *Logger) Shutdown(_ context.Context) error {
	if l == nil {
		return nil
	}
	l.shutdown.Store(true)
	l.stopOnce.Do(func() {
		if l.sampleStop != nil {
			close(l.sampleStop)
		}
	})
	return nil
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) error {
	if l.shutdown.Load() {
		return ErrLoggerShutdown
	}
	if l.useCustom {
		return ErrCannotChangeLevel
	}
	l.level.Set(level)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the configured service name.
func (l *Logger) ServiceName() string { return l.serviceName }

// ServiceVersion returns the configured service version.
func (l *Logger) ServiceVersion() string { return l.serviceVersion }

// IsEnabled reports whether the logger still accepts entries.
func (l *Logger) IsEnabled() bool {
	return l != nil && !l.shutdown.Load()
}
