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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
		errText string
	}{
		{name: "nil output", opts: []Option{WithOutput(nil)}, errText: "output writer cannot be nil"},
		{name: "nil slog logger", opts: []Option{WithSlogLogger(nil)}, wantErr: ErrNilLogger},
		{name: "bad handler", opts: []Option{WithHandlerType("xml")}, wantErr: ErrInvalidHandler},
		{
			name:    "negative sampling",
			opts:    []Option{WithSampling(SamplingConfig{Initial: -1})},
			errText: "sampling values must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.opts...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustNew(WithHandlerType("xml")) })
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: " warn ", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_LevelsAndServiceAttrs(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelInfo), WithServiceName("guard"), WithServiceVersion("1.2.0"))
	th.Logger.Debug("hidden")
	th.Logger.Info("schema registered", "schema", "user")
	th.Logger.Warn("slow")
	th.Logger.Error("boom")

	assert.False(t, th.ContainsLog("hidden"))
	th.AssertLog(t, "INFO", "schema registered", map[string]any{
		"schema":  "user",
		"service": "guard",
		"version": "1.2.0",
	})
	assert.Equal(t, 1, th.CountLevel("WARN"))
	assert.Equal(t, 1, th.CountLevel("ERROR"))
	assert.Equal(t, "guard", th.Logger.ServiceName())
	assert.Equal(t, "1.2.0", th.Logger.ServiceVersion())
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithRedactedKeys("Card_Number"))
	th.Logger.Info("input", "password", "hunter2", "API_KEY", "k", "card_number", "4111", "field", "email")

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.Equal(t, redactedValue, entry.Attrs["password"])
	assert.Equal(t, redactedValue, entry.Attrs["API_KEY"])
	assert.Equal(t, redactedValue, entry.Attrs["card_number"])
	assert.Equal(t, "email", entry.Attrs["field"])
}

func TestLogger_ReplaceAttrRunsAfterRedaction(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "schema" {
			return slog.String(a.Key, strings.ToUpper(a.Value.String()))
		}
		return a
	}))
	th.Logger.Info("x", "schema", "user", "token", "t")

	th.AssertLog(t, "INFO", "x", map[string]any{"schema": "USER", "token": redactedValue})
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelWarn))
	th.Logger.Info("before")
	require.NoError(t, th.Logger.SetLevel(LevelDebug))
	assert.Equal(t, LevelDebug, th.Logger.Level())
	th.Logger.Info("after")

	assert.False(t, th.ContainsLog("before"))
	assert.True(t, th.ContainsLog("after"))
}

func TestLogger_SetLevelOnCustomLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.ErrorIs(t, l.SetLevel(LevelDebug), ErrCannotChangeLevel)

	l.Info("routed", "schema", "user")
	assert.Contains(t, buf.String(), "routed")
}

func TestLogger_Shutdown(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithSampling(SamplingConfig{Initial: 1, Thereafter: 1, Tick: time.Millisecond}))
	require.NoError(t, th.Logger.Shutdown(context.Background()))
	require.NoError(t, th.Logger.Shutdown(context.Background()))

	th.Logger.Error("dropped")
	assert.False(t, th.ContainsLog("dropped"))
	assert.False(t, th.Logger.IsEnabled())
	require.ErrorIs(t, th.Logger.SetLevel(LevelDebug), ErrLoggerShutdown)
}

func TestLogger_Sampling(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithSampling(SamplingConfig{Initial: 2, Thereafter: 3}))
	for range 8 {
		th.Logger.Info("sampled")
	}
	th.Logger.Error("always")
	th.Logger.Error("always")

	// entries 1, 2 pass; then 5 and 8
	assert.Equal(t, 4, th.CountLevel("INFO"))
	assert.Equal(t, 2, th.CountLevel("ERROR"))
}

func TestLogger_Helpers(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	th.Logger.LogError(nil, "ignored")
	th.Logger.LogError(errors.New("disk full"), "cache flush failed", "entries", 3)
	th.Logger.LogDuration("compiled", time.Now().Add(-5*time.Millisecond), "schema", "user")

	assert.False(t, th.ContainsLog("ignored"))
	th.AssertLog(t, "ERROR", "cache flush failed", map[string]any{"error": "disk full", "entries": 3})

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.Equal(t, "compiled", entry.Message)
	assert.GreaterOrEqual(t, entry.Attrs["duration_ms"], 5.0)
}

func TestLogger_NilReceiver(t *testing.T) {
	t.Parallel()

	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("nothing")
		l.Error("nothing")
		l.SlowValidation(context.Background(), "f", "s", time.Second, time.Millisecond)
		l.ValidationPanic(context.Background(), "f", "s", "boom")
		l.With("k", "v").Info("discarded")
		require.NoError(t, l.Shutdown(context.Background()))
	})
	assert.False(t, l.IsEnabled())
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() { th.Logger.Info("validated", "item", i) })
	}
	wg.Wait()

	entries, err := th.Logs()
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestTextHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithTextHandler(), WithOutput(&buf))
	l.Info("checked", "field", "age", "secret", "s3")

	out := buf.String()
	assert.Contains(t, out, "msg=checked")
	assert.Contains(t, out, "field=age")
	assert.Contains(t, out, "secret=***REDACTED***")
}
