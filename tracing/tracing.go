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


package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// scopeName is the instrumentation scope of every span.
const scopeName = "rivaas.dev/guard"

const (
	// DefaultServiceName is used when no service name is given.
	DefaultServiceName = "guard"

	// DefaultServiceVersion is used when no service version is given.
	DefaultServiceVersion = "1.0.0"

	// DefaultSampleRate samples every validation.
	DefaultSampleRate = 1.0
)

// Provider names a span exporter.
type Provider string

const (
	// NoopProvider records nothing (default).
	NoopProvider Provider = "noop"

	// StdoutProvider pretty-prints spans.
	StdoutProvider Provider = "stdout"

	// OTLPProvider exports over OTLP gRPC.
	OTLPProvider Provider = "otlp"

	// OTLPHTTPProvider exports over OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"

	// ExporterProvider sends spans synchronously to a caller-supplied exporter.
	ExporterProvider Provider = "exporter"
)

// Tracer owns an OpenTelemetry tracer provider and the tracer handed to
// guard services.
type Tracer struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	logger         *slog.Logger

	serviceName    string
	serviceVersion string
	sampleRate     float64
	provider       Provider
	otlpEndpoint   string
	stdoutWriter   io.Writer
	exporter       sdktrace.SpanExporter

	shutdownOnce sync.Once
	shutdownErr  error

	validationErrors     []error
	providerSet          bool
	otlpInsecure         bool
	customTracerProvider bool
	registerGlobal       bool
}

// New returns a tracer. Without a provider option spans are not exported.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:    DefaultServiceName,
		serviceVersion: DefaultServiceVersion,
		sampleRate:     DefaultSampleRate,
		provider:       NoopProvider,
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid tracing configuration: %w", err)
	}
	if err := t.initializeProvider(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize tracing: %v", err))
	}

	return t
}

func (t *Tracer) validate() error {
	errs := append([]error(nil), t.validationErrors...)
	if t.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if t.serviceVersion == "" {
		errs = append(errs, errors.New("service version cannot be empty"))
	}
	if t.customTracerProvider && t.tracerProvider == nil {
		errs = append(errs, errors.New("custom tracer provider is nil"))
	}
	if t.provider == ExporterProvider && t.exporter == nil {
		errs = append(errs, errors.New("span exporter is nil"))
	}

	return errors.Join(errs...)
}

// Tracer returns the tracer to pass to guard.WithTracer. It is never nil.
func (t *Tracer) Tracer() trace.Tracer {
	if t == nil || t.tracer == nil {
		return noop.NewTracerProvider().Tracer(scopeName)
	}

	return t.tracer
}

// TracerProvider returns the underlying provider.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// Provider returns the exporter in use, or "custom" for a caller-supplied
// tracer provider.
func (t *Tracer) Provider() Provider {
	if t.customTracerProvider {
		return "custom"
	}

	return t.provider
}

// ServiceName returns the service.name resource attribute.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// SampleRate returns the configured sampling ratio.
func (t *Tracer) SampleRate() float64 {
	return t.sampleRate
}

// StartSpan starts a span named name with attrs.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// FinishSpan records err on span, if any, and ends it.
func FinishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ForceFlush exports pending spans. Caller-managed providers are left alone.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("tracing force flush: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the tracer provider. Caller-managed providers
// are left running. Only the first call does any work.
func (t *Tracer) Shutdown(ctx context.Context) error {
	t.shutdownOnce.Do(func() {
		if t.sdkProvider == nil {
			t.debug("Skipping shutdown of tracer provider not owned by guard")
			return
		}
		if err := t.sdkProvider.Shutdown(ctx); err != nil {
			t.shutdownErr = fmt.Errorf("tracer provider shutdown: %w", err)
		}
	})

	return t.shutdownErr
}

func (t *Tracer) debug(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}
