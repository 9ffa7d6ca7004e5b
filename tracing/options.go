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
	"fmt"
	"io"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithTracerProvider uses a caller-managed provider. Provider options are
// ignored and [Tracer.Shutdown] leaves it running.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.tracerProvider = provider
		t.customTracerProvider = true
	}
}

// WithGlobalTracerProvider also registers the provider with otel.SetTracerProvider.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithSampleRate sets the ratio of root spans sampled, clamped to [0, 1].
// Child spans follow their parent.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = min(max(rate, 0), 1)
	}
}

// WithLogger receives debug messages about provider setup.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		t.logger = logger
	}
}

// OTLPOption configures the OTLP gRPC exporter.
type OTLPOption func(*Tracer)

// OTLPInsecure disables TLS for the gRPC connection.
func OTLPInsecure() OTLPOption {
	return func(t *Tracer) {
		t.otlpInsecure = true
	}
}

// WithOTLP exports over OTLP gRPC to endpoint ("host:port").
func WithOTLP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		if !t.setProvider(OTLPProvider) {
			return
		}
		t.otlpEndpoint = endpoint
		for _, opt := range opts {
			opt(t)
		}
	}
}

// WithOTLPHTTP exports over OTLP HTTP. An "http://" endpoint disables TLS.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		if t.setProvider(OTLPHTTPProvider) {
			t.otlpEndpoint = endpoint
		}
	}
}

// WithStdout pretty-prints spans to stdout.
func WithStdout() Option {
	return func(t *Tracer) {
		t.setProvider(StdoutProvider)
	}
}

// WithStdoutWriter pretty-prints spans to w.
func WithStdoutWriter(w io.Writer) Option {
	return func(t *Tracer) {
		if t.setProvider(StdoutProvider) {
			t.stdoutWriter = w
		}
	}
}

// WithExporter sends every ended span synchronously to exp.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(t *Tracer) {
		if t.setProvider(ExporterProvider) {
			t.exporter = exp
		}
	}
}

// WithNoop records spans without exporting them (default).
func WithNoop() Option {
	return func(t *Tracer) {
		t.setProvider(NoopProvider)
	}
}

func (t *Tracer) setProvider(p Provider) bool {
	if t.providerSet {
		t.validationErrors = append(t.validationErrors,
			fmt.Errorf("provider: multiple providers configured (already have %q, cannot add %q); only one provider allowed", t.provider, p))

		return false
	}
	t.provider = p
	t.providerSet = true

	return true
}
