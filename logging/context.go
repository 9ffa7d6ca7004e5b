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
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const (
	fieldTraceID = "trace_id"
	fieldSpanID  = "span_id"
)

// ContextLogger logs with the trace and span IDs found in a context.
type ContextLogger struct {
	logger  *slog.Logger
	ctx     context.Context
	traceID string
	spanID  string
}

// NewContextLogger binds logger to ctx. When ctx carries a valid span, every
// entry gets trace_id and span_id attributes.
func NewContextLogger(ctx context.Context, logger *Logger) *ContextLogger {
	cl := &ContextLogger{logger: logger.Logger(), ctx: ctx}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		cl.traceID = sc.TraceID().String()
		cl.spanID = sc.SpanID().String()
		cl.logger = cl.logger.With(fieldTraceID, cl.traceID, fieldSpanID, cl.spanID)
	}
	return cl
}

// Logger returns the underlying [slog.Logger].
func (cl *ContextLogger) Logger() *slog.Logger { return cl.logger }

// TraceID returns the trace ID, or "" when the context had no span.
func (cl *ContextLogger) TraceID() string { return cl.traceID }

// SpanID returns the span ID, or "" when the context had no span.
func (cl *ContextLogger) SpanID() string { return cl.spanID }

// With returns a [slog.Logger] carrying args and the trace attributes.
func (cl *ContextLogger) With(args ...any) *slog.Logger { return cl.logger.With(args...) }

// Debug logs at debug level.
func (cl *ContextLogger) Debug(msg string, args ...any) { cl.logger.DebugContext(cl.ctx, msg, args...) }

// Info logs at info level.
func (cl *ContextLogger) Info(msg string, args ...any) { cl.logger.InfoContext(cl.ctx, msg, args...) }

// Warn logs at warn level.
func (cl *ContextLogger) Warn(msg string, args ...any) { cl.logger.WarnContext(cl.ctx, msg, args...) }

// Error logs at error level.
func (cl *ContextLogger) Error(msg string, args ...any) { cl.logger.ErrorContext(cl.ctx, msg, args...) }

// traceArgs returns trace_id and span_id for ctx, if any.
func traceArgs(ctx context.Context) []any {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []any{fieldTraceID, sc.TraceID().String(), fieldSpanID, sc.SpanID().String()}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// SlowValidation reports a validation that took longer than threshold.
func (l *Logger) SlowValidation(ctx context.Context, field, schema string, elapsed, threshold time.Duration) {
	args := []any{
		"field", field,
		"schema", schema,
		"elapsed_ms", millis(elapsed),
		"threshold_ms", millis(threshold),
	}
	l.log(ctx, LevelWarn, "slow validation", append(args, traceArgs(ctx)...)...)
}

// ValidationPanic reports a panic recovered while validating field.
func (l *Logger) ValidationPanic(ctx context.Context, field, schema string, recovered any) {
	args := []any{
		"field", field,
		"schema", schema,
		"panic", fmt.Sprint(recovered),
	}
	l.log(ctx, LevelError, "validation exception", append(args, traceArgs(ctx)...)...)
}
