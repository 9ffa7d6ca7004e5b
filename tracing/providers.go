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
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func (t *Tracer) initializeProvider(ctx context.Context) error {
	if t.customTracerProvider {
		t.debug("Using custom user-provided tracer provider")
		t.tracer = t.tracerProvider.Tracer(scopeName)
		if t.registerGlobal {
			otel.SetTracerProvider(t.tracerProvider)
		}

		return nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}

	switch t.provider {
	case NoopProvider:
	case StdoutProvider:
		exp, err := t.stdoutExporter()
		if err != nil {
			return err
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	case OTLPProvider:
		exp, err := t.otlpGRPCExporter(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	case OTLPHTTPProvider:
		exp, err := t.otlpHTTPExporter(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	case ExporterProvider:
		opts = append(opts, sdktrace.WithSyncer(t.exporter))
	default:
		return fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	t.sdkProvider = tp
	t.tracerProvider = tp
	t.tracer = tp.Tracer(scopeName)

	if t.registerGlobal {
		t.debug("Setting global OpenTelemetry tracer provider", "provider", t.provider)
		otel.SetTracerProvider(tp)
	}
	t.debug("Tracing initialized", "provider", t.provider, "service", t.serviceName)

	return nil
}

func (t *Tracer) stdoutExporter() (sdktrace.SpanExporter, error) {
	w := t.stdoutWriter
	if w == nil {
		w = os.Stdout
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	return exp, nil
}

func (t *Tracer) otlpGRPCExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracegrpc.Option
	if t.otlpEndpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
	}
	if t.otlpInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
	}

	return exp, nil
}

func (t *Tracer) otlpHTTPExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracehttp.Option
	if t.otlpEndpoint != "" {
		endpoint, insecure := splitEndpoint(t.otlpEndpoint)
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	}

	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}

	return exp, nil
}

// splitEndpoint reduces a URL to host:port and reports whether it was
// plain http.
func splitEndpoint(raw string) (string, bool) {
	endpoint, insecure := strings.CutPrefix(raw, "http://")
	if !insecure {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	if i := strings.IndexByte(endpoint, '/'); i != -1 {
		endpoint = endpoint[:i]
	}

	return endpoint, insecure
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}
