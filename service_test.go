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

package guard

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"pgregory.net/rapid"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/config"
	"rivaas.dev/guard/logging"
	"rivaas.dev/guard/metrics"
	"rivaas.dev/guard/result"
	"rivaas.dev/guard/sanitize"
	"rivaas.dev/guard/schema"
	"rivaas.dev/guard/tracing"
)

// stubSchema runs fn as its validation.
type stubSchema struct {
	*schema.Base
	fn func(data any, field string) *result.Result
}

func newStub(name string, fn func(data any, field string) *result.Result) *stubSchema {
	return &stubSchema{Base: schema.NewBase(name), fn: fn}
}

func (s *stubSchema) Compile() error { return s.CompileOnce(nil) }

func (s *stubSchema) Validate(_ context.Context, data any, field string) *result.Result {
	return s.fn(data, field)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	bad := config.Default()
	bad.MaxDictDepth = -1

	_, err := New(WithDefaultConfig(bad))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Panics(t, func() { MustNew(WithDefaultConfig(bad)) })
}

func TestService_ValidateBasic(t *testing.T) {
	t.Parallel()

	limits := config.MustNew(
		config.WithMaxStringLength(5),
		config.WithMaxListLength(2),
		config.WithMaxDictDepth(2),
	)

	tests := []struct {
		name   string
		in     any
		valid  bool
		errors []string
	}{
		{name: "short string", in: "hello", valid: true},
		{name: "long string", in: "hello!", errors: []string{"String length 6 exceeds maximum of 5"}},
		{name: "multibyte counted as runes", in: "héllo", valid: true},
		{name: "short list", in: []any{1, 2}, valid: true},
		{name: "long list", in: []any{1, 2, 3}, errors: []string{"List length 3 exceeds maximum of 2"}},
		{name: "flat dict", in: map[string]any{"a": 1}, valid: true},
		{name: "depth two", in: map[string]any{"a": map[string]any{"b": 1}}, valid: true},
		{
			name:   "depth three",
			in:     map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}},
			errors: []string{"Maximum dictionary depth exceeded (2)"},
		},
		{
			name:   "depth through list",
			in:     map[string]any{"a": []any{map[string]any{"b": map[string]any{}}}},
			errors: []string{"Maximum dictionary depth exceeded (2)"},
		},
		{name: "nil", in: nil, valid: true},
		{name: "number", in: 42, valid: true},
	}

	svc := MustNew(WithDefaultConfig(limits))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := svc.Validate(t.Context(), tt.in, WithField("payload"))
			assert.Equal(t, tt.valid, r.Valid)
			assert.Equal(t, tt.errors, r.ErrorMessages())
			assert.Equal(t, "payload", r.Field)
			assert.Equal(t, tt.in, r.Value)
		})
	}
}

func TestService_ValidateBasic_Unlimited(t *testing.T) {
	t.Parallel()

	cfg := config.MustNew(config.WithMaxStringLength(0), config.WithMaxDictDepth(0))
	r := MustNew(WithDefaultConfig(cfg)).Validate(t.Context(), strings.Repeat("x", 50_000))
	assert.True(t, r.Valid)
}

func nested(depth int) any {
	var v any = "leaf"
	for range depth {
		v = map[string]any{"k": v}
	}
	return v
}

func TestService_DictDepthProperty(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 20).Draw(t, "depth")
		limit := rapid.IntRange(1, 20).Draw(t, "limit")

		cfg := config.MustNew(config.WithMaxDictDepth(limit))
		r := svc.Validate(context.Background(), nested(depth), WithConfig(cfg))
		if r.Valid != (depth <= limit) {
			t.Fatalf("depth %d limit %d: valid=%v errors=%v", depth, limit, r.Valid, r.ErrorMessages())
		}
	})
}

func TestService_ValidateBasic_Sanitization(t *testing.T) {
	t.Parallel()

	svc := MustNew(WithDefaultConfig(config.MustNew(config.WithSanitization(true))))
	r := svc.Validate(t.Context(), `<script>alert(1)</script>Hello`)

	require.True(t, r.Valid)
	assert.NotContains(t, strings.ToLower(r.Value.(string)), "<script")
	assert.Contains(t, r.Value, "Hello")
	assert.NotEmpty(t, r.Warnings)
	assert.Equal(t, `<script>alert(1)</script>Hello`, r.Original)
}

func TestService_ValidateWithSchema(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	require.NoError(t, svc.RegisterSchema(schema.NewBasic("age", coerce.TargetInt)))

	r := svc.Validate(t.Context(), "30", WithSchemaName("age"), WithField("age"))
	require.True(t, r.Valid, r.ErrorMessages())
	assert.Equal(t, 30, r.Value)
	assert.Equal(t, []string{"Coerced string to int"}, r.WarningMessages())
	assert.Positive(t, r.Duration)

	r = svc.Validate(t.Context(), "abc", WithSchema(schema.NewBasic("inline", coerce.TargetInt)))
	assert.False(t, r.Valid)
	assert.Equal(t, "abc", r.Value)
}

func TestService_UnknownSchema(t *testing.T) {
	t.Parallel()

	r := MustNew().Validate(t.Context(), 1, WithSchemaName("missing"))
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"Schema 'missing' is not registered"}, r.ErrorMessages())
	assert.Equal(t, result.KindSystem, r.Errors[0].Kind)
}

func TestService_CompileFailure(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	require.NoError(t, svc.RegisterSchema(schema.NewString("code", schema.WithPattern("("))))

	r := svc.Validate(t.Context(), "x", WithSchemaName("code"))
	require.False(t, r.Valid)
	assert.Contains(t, r.ErrorMessages()[0], "Schema compilation failed")
}

func TestService_SchemaPanic(t *testing.T) {
	t.Parallel()

	th := logging.NewTestHelper(t)
	svc := MustNew(WithLogger(th.Logger))
	boom := newStub("boom", func(any, string) *result.Result { panic("index out of range") })

	r := svc.Validate(t.Context(), map[string]any{"a": 1}, WithSchema(boom), WithField("payload"))

	require.False(t, r.Valid)
	assert.Equal(t, []string{"Validation exception: index out of range"}, r.ErrorMessages())
	assert.Equal(t, result.KindSystem, r.Errors[0].Kind)
	th.AssertLog(t, "ERROR", "validation exception", map[string]any{
		"field":  "payload",
		"schema": "boom",
		"panic":  "index out of range",
	})
}

func TestService_NilResultFromSchema(t *testing.T) {
	t.Parallel()

	empty := newStub("empty", func(any, string) *result.Result { return nil })
	r := MustNew().Validate(t.Context(), 1, WithSchema(empty))
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"Validation exception: schema returned no result"}, r.ErrorMessages())
}

func TestService_Levels(t *testing.T) {
	t.Parallel()

	intSchema := schema.NewBasic("n", coerce.TargetInt)

	tests := []struct {
		level    config.Level
		valid    bool
		errors   int
		warnings []string
	}{
		{level: config.LevelStrict, valid: false, errors: 1},
		{level: config.LevelLenient, valid: false, errors: 1},
		{
			level:    config.LevelPermissive,
			valid:    true,
			warnings: []string{"permissive: Cannot coerce string to int: invalid integer literal \"x\""},
		},
	}

	svc := MustNew()
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()
			cfg := config.MustNew(config.WithLevel(tt.level))
			r := svc.Validate(t.Context(), "x", WithSchema(intSchema), WithConfig(cfg))
			assert.Equal(t, tt.valid, r.Valid)
			assert.Len(t, r.Errors, tt.errors)
			if tt.warnings != nil {
				assert.Equal(t, tt.warnings, r.WarningMessages())
			}
		})
	}
}

func TestService_SanitizeAfterSchema(t *testing.T) {
	t.Parallel()

	cfg := config.MustNew(config.WithSanitization(true), config.WithSchemaCaching(false))
	svc := MustNew(WithDefaultConfig(cfg))

	r := svc.Validate(t.Context(), "<b onclick=\"x()\">hi</b>", WithSchema(schema.NewString("s")))
	require.True(t, r.Valid)
	assert.NotContains(t, r.Value, "onclick")
	assert.NotEmpty(t, r.Warnings)
}

func TestService_ValidateMany(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	ages := schema.NewBasic("age", coerce.TargetInt)

	results := svc.ValidateMany(t.Context(), []any{1, "2", "three"}, WithSchema(ages))
	require.Len(t, results, 3)
	assert.Equal(t, "item_0", results[0].Field)
	assert.Equal(t, "item_2", results[2].Field)
	assert.True(t, results[0].Valid)
	assert.Equal(t, 2, results[1].Value)
	assert.False(t, results[2].Valid)

	named := svc.ValidateMany(t.Context(), []any{1, 2}, WithSchema(ages), WithField("ages"))
	assert.Equal(t, "ages[1]", named[1].Field)
}

func TestService_Cache(t *testing.T) {
	t.Parallel()

	var calls int
	var mu sync.Mutex
	counting := newStub("counting", func(data any, field string) *result.Result {
		mu.Lock()
		calls++
		mu.Unlock()
		return result.New(field, data)
	})

	svc := MustNew()
	first := svc.Validate(t.Context(), map[string]any{"a": 1}, WithSchema(counting), WithField("x"))
	second := svc.Validate(t.Context(), map[string]any{"a": 1}, WithSchema(counting), WithField("y"))
	svc.Validate(t.Context(), map[string]any{"a": 2}, WithSchema(counting))

	assert.Equal(t, 2, calls)
	assert.Nil(t, first.Metadata)
	assert.Equal(t, true, second.Metadata["cached"])
	assert.Equal(t, "y", second.Field)

	snap := svc.Metrics()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(2), snap.CacheMisses)
	assert.Equal(t, int64(3), snap.Total)

	noCache := config.MustNew(config.WithSchemaCaching(false))
	svc.Validate(t.Context(), map[string]any{"a": 1}, WithSchema(counting), WithConfig(noCache))
	assert.Equal(t, 3, calls)
}

func TestService_CacheScope(t *testing.T) {
	t.Parallel()

	t.Run("schemas sharing a name", func(t *testing.T) {
		t.Parallel()
		svc := MustNew()

		asInt := svc.Validate(t.Context(), "30", WithSchema(schema.NewBasic("age", coerce.TargetInt)))
		require.True(t, asInt.Valid)
		assert.Equal(t, 30, asInt.Value)

		short := svc.Validate(t.Context(), "30", WithSchema(schema.NewString("age", schema.WithLength(0, 1))))
		assert.False(t, short.Valid)
		assert.Equal(t, "30", short.Value)
		assert.Nil(t, short.Metadata)
		assert.Equal(t, []string{"String is too long (maximum 1 characters)"}, short.ErrorMessages())
	})

	t.Run("per-call config", func(t *testing.T) {
		t.Parallel()
		svc := MustNew()
		text := schema.NewString("text")
		sanitizing := config.MustNew(config.WithSanitization(true))

		clean := svc.Validate(t.Context(), "<b>x</b>", WithSchema(text), WithConfig(sanitizing))
		require.True(t, clean.Valid)
		assert.NotEqual(t, "<b>x</b>", clean.Value)

		plain := svc.Validate(t.Context(), "<b>x</b>", WithSchema(text))
		assert.Equal(t, "<b>x</b>", plain.Value)
		assert.Nil(t, plain.Metadata)

		again := svc.Validate(t.Context(), "<b>x</b>", WithSchema(text))
		assert.Equal(t, true, again.Metadata["cached"])
		assert.Equal(t, int64(1), svc.Metrics().CacheHits)
	})
}

func TestService_Metrics(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	age := schema.NewBasic("age", coerce.TargetInt)
	svc.Validate(t.Context(), 1, WithSchema(age))
	svc.Validate(t.Context(), "x", WithSchema(age))

	snap := svc.Metrics()
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Succeeded)
	assert.Equal(t, int64(1), snap.Failed)
	assert.InDelta(t, 0.5, snap.SuccessRate(), 1e-9)

	svc.ResetMetrics()
	assert.Zero(t, svc.Metrics().Total)
}

func TestService_SlowValidation(t *testing.T) {
	t.Parallel()

	th := logging.NewTestHelper(t)
	cfg := config.MustNew(config.WithMaxValidationTime(time.Millisecond), config.WithSchemaCaching(false))
	svc := MustNew(WithDefaultConfig(cfg), WithLogger(th.Logger))
	slow := newStub("slow", func(data any, field string) *result.Result {
		time.Sleep(5 * time.Millisecond)
		return result.New(field, data)
	})

	r := svc.Validate(t.Context(), 1, WithSchema(slow), WithField("n"))
	require.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
	th.AssertLog(t, "WARN", "slow validation", map[string]any{"field": "n", "schema": "slow", "threshold_ms": 1})

	th.Reset()
	quiet := cfg.With(config.WithPerformanceMonitoring(false))
	svc.Validate(t.Context(), 1, WithSchema(slow), WithConfig(quiet))
	assert.False(t, th.ContainsLog("slow validation"))
}

func TestService_Tracing(t *testing.T) {
	t.Parallel()

	tr, exp := tracing.TestingTracer(t)

	svc := MustNew(WithTracer(tr.Tracer()))
	svc.Validate(t.Context(), "x", WithSchema(schema.NewBasic("age", coerce.TargetInt)), WithField("age"))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "guard.validate", span.Name)
	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Contains(t, span.Attributes, attribute.String("guard.field", "age"))
	assert.Contains(t, span.Attributes, attribute.String("guard.schema", "age"))
	assert.Contains(t, span.Attributes, attribute.Bool("guard.valid", false))
}

func TestService_Recorder(t *testing.T) {
	t.Parallel()

	recorder, reader := metrics.TestingRecorder(t)
	svc := MustNew(WithRecorder(recorder))
	age := schema.NewBasic("age", coerce.TargetInt)
	svc.Validate(t.Context(), 1, WithSchema(age))
	svc.Validate(t.Context(), 1, WithSchema(age))
	svc.Sanitize(t.Context(), "<i>x</i>", sanitize.ModeHTML)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	assert.True(t, names["guard.validations"])
	assert.True(t, names["guard.validation.duration"])
	assert.True(t, names["guard.cache.lookups"])
	assert.True(t, names["guard.sanitizations"])
}

func TestService_Sanitize(t *testing.T) {
	t.Parallel()

	svc := MustNew()

	r := svc.Sanitize(t.Context(), "../../etc/passwd", sanitize.ModePath)
	assert.NotContains(t, r.Value, "..")

	r = svc.Sanitize(t.Context(), "javascript:alert(1)", sanitize.ModeURL)
	assert.False(t, r.Valid)
	assert.Equal(t, "javascript:alert(1)", r.Value)
}

type account struct {
	ID    int    `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestService_ValidateModel(t *testing.T) {
	t.Parallel()

	t.Run("no factory", func(t *testing.T) {
		t.Parallel()
		r := MustNew().ValidateModel(t.Context(), map[string]any{"id": 1}, account{})
		require.False(t, r.Valid)
		assert.Len(t, r.Errors, 1)
		assert.Contains(t, r.ErrorMessages()[0], "no model factory configured")
	})

	t.Run("decode factory", func(t *testing.T) {
		t.Parallel()
		svc := MustNew(WithModelFactory(schema.NewDecodeFactory()))

		r := svc.ValidateModel(t.Context(), map[string]any{"id": 7, "email": "a@b.co"}, account{})
		require.True(t, r.Valid, r.ErrorMessages())
		assert.Equal(t, account{ID: 7, Email: "a@b.co"}, deref(r.Value))

		r = svc.ValidateModel(t.Context(), map[string]any{"id": 7}, (*account)(nil))
		assert.False(t, r.Valid)
		assert.Len(t, r.Errors, 1)
	})

	t.Run("factory error", func(t *testing.T) {
		t.Parallel()
		failing := schema.ModelFactoryFunc(func(context.Context, reflect.Type, map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		})
		r := MustNew(WithModelFactory(failing)).ValidateModel(t.Context(), map[string]any{}, account{})
		assert.Equal(t, []string{"Model validation failed: backend unavailable"}, r.ErrorMessages())
	})
}

func deref(v any) any {
	if p, ok := v.(*account); ok {
		return *p
	}
	return v
}

func TestService_SharedRuntime(t *testing.T) {
	t.Parallel()

	rt := NewRuntime(config.Default())
	a := MustNew(WithRuntime(rt))
	b := MustNew(WithRuntime(rt))

	require.NoError(t, a.RegisterSchema(schema.NewString("name")))
	assert.Equal(t, []string{"name"}, b.Schemas())

	b.Validate(t.Context(), "x", WithSchemaName("name"))
	assert.Equal(t, int64(1), a.Metrics().Total)

	rt.Reset()
	assert.Empty(t, a.Schemas())
	assert.Zero(t, b.Metrics().Total)
	assert.Zero(t, rt.Cache().Len())
}

func TestService_SchemaCRUD(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	require.NoError(t, svc.RegisterSchema(schema.NewString("b")))
	require.NoError(t, svc.RegisterSchema(schema.NewString("a")))
	require.ErrorIs(t, svc.RegisterSchema(schema.NewString("a")), ErrDuplicateSchema)
	require.ErrorIs(t, svc.RegisterSchema(nil), ErrNilSchema)

	assert.Equal(t, []string{"a", "b"}, svc.Schemas())

	got, err := svc.Schema("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name())

	require.NoError(t, svc.RemoveSchema("a"))
	require.ErrorIs(t, svc.RemoveSchema("a"), ErrSchemaNotFound)
	_, err = svc.Schema("a")
	require.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestService_ConcurrentValidate(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	require.NoError(t, svc.RegisterSchema(schema.NewString("code", schema.WithPattern(`[A-Z]{3}`))))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			in := "ABC"
			if i%2 == 1 {
				in = "abc"
			}
			r := svc.Validate(context.Background(), in, WithSchemaName("code"))
			assert.Equal(t, i%2 == 0, r.Valid)
		})
	}
	wg.Wait()
	assert.Equal(t, int64(50), svc.Metrics().Total)
}
