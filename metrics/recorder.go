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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// meterName is the instrumentation scope of every instrument.
const meterName = "rivaas.dev/guard"

// DefaultDurationBuckets are histogram boundaries for validation time in
// seconds, from 10µs to 1s.
var DefaultDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// EventType is the severity of an internal event.
type EventType int

const (
	EventError EventType = iota
	EventWarning
	EventInfo
	EventDebug
)

// Event is an internal operational event, such as a failed flush.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal events.
type EventHandler func(Event)

// DefaultEventHandler returns an [EventHandler] logging to logger. A nil
// logger discards events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider names a metrics exporter.
type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OTLPProvider       Provider = "otlp"
	StdoutProvider     Provider = "stdout"
)

// Recorder exports validation metrics through OpenTelemetry.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	eventHandler       EventHandler

	validations   metric.Int64Counter
	duration      metric.Float64Histogram
	cacheLookups  metric.Int64Counter
	sanitizations metric.Int64Counter

	durationBuckets []float64
	exportInterval  time.Duration
	stdoutWriter    io.Writer
	otlpEndpoint    string

	serviceName    string
	serviceVersion string
	serviceAttrs   []attribute.KeyValue

	optionErrors        []error
	provider            Provider
	providerSetCount    int
	customMeterProvider bool
	registerGlobal      bool
	isShuttingDown      atomic.Bool
}

// New returns a recorder. Without options it exports through Prometheus.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:        PrometheusProvider,
		serviceName:     "guard",
		serviceVersion:  "1.0.0",
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	r.serviceAttrs = []attribute.KeyValue{
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	}

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	return r
}

func (r *Recorder) validate() error {
	errs := append([]error(nil), r.optionErrors...)
	if r.providerSetCount > 1 {
		errs = append(errs, errors.New("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used"))
	}
	if r.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if r.serviceVersion == "" {
		errs = append(errs, errors.New("service version cannot be empty"))
	}
	if r.exportInterval <= 0 {
		errs = append(errs, fmt.Errorf("export interval must be positive, got %v", r.exportInterval))
	} else if r.exportInterval < time.Second {
		r.emitWarning("Export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}
	if r.provider == OTLPProvider && r.otlpEndpoint == "" {
		r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
		r.otlpEndpoint = "http://localhost:4318"
	}

	return errors.Join(errs...)
}

// Handler returns the Prometheus scrape handler. It is only available
// with [PrometheusProvider].
func (r *Recorder) Handler() (http.Handler, error) {
	if r.customMeterProvider || r.provider != PrometheusProvider || r.prometheusHandler == nil {
		return nil, fmt.Errorf("handler only available with Prometheus provider, current provider: %s", r.Provider())
	}

	return r.prometheusHandler, nil
}

// Provider returns the exporter in use, or "custom" for a caller-supplied
// meter provider.
func (r *Recorder) Provider() Provider {
	if r.customMeterProvider {
		return "custom"
	}

	return r.provider
}

// ServiceName returns the service name attached to every measurement.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ForceFlush exports pending measurements. It is a no-op for Prometheus,
// which is pull based, and for caller-managed providers.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok || r.customMeterProvider {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metrics force flush: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider. Caller-managed providers
// are left running. It is safe to call more than once.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if r.customMeterProvider {
		r.emitDebug("Skipping shutdown of custom meter provider (managed by user)")
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		r.emitError("meter provider shutdown failed", "error", err)
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	return nil
}

func (r *Recorder) emit(t EventType, msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: t, Message: msg, Args: args})
	}
}

func (r *Recorder) emitError(msg string, args ...any)   { r.emit(EventError, msg, args...) }
func (r *Recorder) emitWarning(msg string, args ...any) { r.emit(EventWarning, msg, args...) }
func (r *Recorder) emitDebug(msg string, args ...any)   { r.emit(EventDebug, msg, args...) }
