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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func tracedContext(t *testing.T) context.Context {
	t.Helper()
	tid, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	sid, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid, TraceFlags: trace.FlagsSampled})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	t.Run("with span", func(t *testing.T) {
		t.Parallel()
		th := NewTestHelper(t)
		cl := NewContextLogger(tracedContext(t), th.Logger)

		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", cl.TraceID())
		assert.Equal(t, "00f067aa0ba902b7", cl.SpanID())

		cl.Info("validated", "field", "email")
		th.AssertLog(t, "INFO", "validated", map[string]any{
			"field":    "email",
			"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
			"span_id":  "00f067aa0ba902b7",
		})
	})

	t.Run("without span", func(t *testing.T) {
		t.Parallel()
		th := NewTestHelper(t)
		cl := NewContextLogger(context.Background(), th.Logger)

		assert.Empty(t, cl.TraceID())
		cl.Warn("plain")

		entry, err := th.LastLog()
		require.NoError(t, err)
		assert.NotContains(t, entry.Attrs, "trace_id")
	})
}

func TestSlowValidation(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	th.Logger.SlowValidation(tracedContext(t), "user.email", "user", 1500*time.Millisecond, time.Second)

	th.AssertLog(t, "WARN", "slow validation", map[string]any{
		"field":        "user.email",
		"schema":       "user",
		"elapsed_ms":   1500.0,
		"threshold_ms": 1000.0,
		"trace_id":     "4bf92f3577b34da6a3ce929d0e0e4736",
	})
}

func TestValidationPanic(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelError))
	th.Logger.ValidationPanic(context.Background(), "payload", "order", "index out of range")

	th.AssertLog(t, "ERROR", "validation exception", map[string]any{
		"field":  "payload",
		"schema": "order",
		"panic":  "index out of range",
	})
}
