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
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "defaults"},
		{name: "empty service name", opts: []Option{WithServiceName("")}, wantErr: "service name cannot be empty"},
		{name: "empty service version", opts: []Option{WithServiceVersion("")}, wantErr: "service version cannot be empty"},
		{name: "two providers", opts: []Option{WithStdout(), WithNoop()}, wantErr: "multiple providers configured"},
		{name: "nil exporter", opts: []Option{WithExporter(nil)}, wantErr: "span exporter is nil"},
		{name: "nil custom provider", opts: []Option{WithTracerProvider(nil)}, wantErr: "custom tracer provider is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr, err := New(tt.opts...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, tr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, NoopProvider, tr.Provider())
			assert.Equal(t, DefaultServiceName, tr.ServiceName())
			require.NoError(t, tr.Shutdown(context.Background()))
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t,
		"Failed to initialize tracing: invalid tracing configuration: service name cannot be empty",
		func() { MustNew(WithServiceName("")) })
}

func TestWithSampleRate_Clamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0.25, 0.25},
		{3, 1},
	}
	for _, tt := range tests {
		tr := MustNew(WithSampleRate(tt.in))
		assert.InDelta(t, tt.want, tr.SampleRate(), 0)
	}
}

func TestSampling(t *testing.T) {
	t.Parallel()

	tr, exp := TestingTracer(t, WithSampleRate(0))
	_, span := tr.StartSpan(t.Context(), "dropped")
	span.End()
	assert.Empty(t, exp.GetSpans())
}

func TestStartSpan_FinishSpan(t *testing.T) {
	t.Parallel()

	tr, exp := TestingTracer(t)

	_, ok := tr.StartSpan(t.Context(), "ok", attribute.String("guard.schema", "user"))
	FinishSpan(ok, nil)
	_, bad := tr.StartSpan(t.Context(), "bad")
	FinishSpan(bad, errors.New("boom"))

	spans := exp.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "ok", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("guard.schema", "user"))
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "boom", spans[1].Status.Description)
	require.Len(t, spans[1].Events, 1)
	assert.Equal(t, "exception", spans[1].Events[0].Name)
}

func TestResourceAttributes(t *testing.T) {
	t.Parallel()

	tr, exp := TestingTracer(t, WithServiceName("orders"))
	_, span := tr.StartSpan(t.Context(), "x")
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Resource.Attributes(), attribute.String("service.name", "orders"))
}

func TestStdoutWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := MustNew(WithStdoutWriter(&buf))
	assert.Equal(t, StdoutProvider, tr.Provider())

	_, span := tr.StartSpan(t.Context(), "printed")
	span.End()
	require.NoError(t, tr.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "printed"`)
}

func TestOTLPHTTP_Construct(t *testing.T) {
	t.Parallel()

	tr, err := New(WithOTLPHTTP("http://localhost:4318/v1/traces"))
	require.NoError(t, err)
	assert.Equal(t, OTLPHTTPProvider, tr.Provider())
	assert.Equal(t, "http://localhost:4318/v1/traces", tr.otlpEndpoint)
	require.NoError(t, tr.Shutdown(context.Background()))
}

func TestSplitEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in           string
		want         string
		wantInsecure bool
	}{
		{"http://localhost:4318", "localhost:4318", true},
		{"https://collector:4318/v1/traces", "collector:4318", false},
		{"collector:4318", "collector:4318", false},
	}
	for _, tt := range tests {
		got, insecure := splitEndpoint(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantInsecure, insecure, tt.in)
	}
}

func TestCustomProvider(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	tr := MustNew(WithTracerProvider(tp))
	assert.Equal(t, Provider("custom"), tr.Provider())

	_, span := tr.StartSpan(t.Context(), "custom")
	span.End()
	require.NoError(t, tr.Shutdown(context.Background()))

	// The provider stays usable after Shutdown.
	_, span = tp.Tracer("t").Start(t.Context(), "after")
	span.End()
	assert.Len(t, sr.Ended(), 2)
}

func TestNilTracer(t *testing.T) {
	t.Parallel()

	var tr *Tracer
	_, span := tr.Tracer().Start(t.Context(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestShutdown_Idempotent(t *testing.T) {
	t.Parallel()

	tr := MustNew()
	require.NoError(t, tr.ForceFlush(context.Background()))
	require.NoError(t, tr.Shutdown(context.Background()))
	require.NoError(t, tr.Shutdown(context.Background()))
}
