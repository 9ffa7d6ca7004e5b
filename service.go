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
	"fmt"
	"reflect"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/guard/config"
	"rivaas.dev/guard/contract"
	"rivaas.dev/guard/logging"
	"rivaas.dev/guard/metrics"
	"rivaas.dev/guard/result"
	"rivaas.dev/guard/sanitize"
	"rivaas.dev/guard/schema"
)

const (
	tracerName = "rivaas.dev/guard"
	spanName   = "guard.validate"

	permissivePrefix = "permissive: "
)

// Service validates and sanitizes values against schemas and output
// contracts. It is safe for concurrent use.
type Service struct {
	cfg       config.Config
	rt        *Runtime
	logger    *logging.Logger
	recorder  *metrics.Recorder
	tracer    trace.Tracer
	factory   schema.ModelFactory
	sanitizer *sanitize.InputSanitizer
	outputs   *contract.Validator
}

// New returns a service. Without options it uses [config.Default], a
// private [Runtime], no logger, no recorder and a no-op tracer.
func New(opts ...Option) (*Service, error) {
	s := &Service{cfg: config.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service configuration: %w", err)
	}

	if s.rt == nil {
		s.rt = NewRuntime(s.cfg)
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	s.sanitizer = sanitize.New(s.cfg)
	s.outputs = contract.NewValidator(s.cfg)

	return s, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Service {
	s, err := New(opts...)
	if err != nil {
		panic("guard: " + err.Error())
	}

	return s
}

// Config returns the default configuration.
func (s *Service) Config() config.Config { return s.cfg }

// Runtime returns the shared state of the service.
func (s *Service) Runtime() *Runtime { return s.rt }

func (s *Service) newCall(opts []CallOption) *call {
	c := &call{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

func (s *Service) configFor(c *call) config.Config {
	if c.cfg != nil {
		return *c.cfg
	}

	return s.cfg
}

func (s *Service) sanitizerFor(cfg config.Config) *sanitize.InputSanitizer {
	if cfg == s.cfg {
		return s.sanitizer
	}

	return sanitize.New(cfg)
}

// Validate checks data against the schema selected by opts.
//
// Without a schema, data is optionally sanitized and checked against the
// string length, list length and dictionary depth limits. With a schema,
// the schema decides validity and a successful value is optionally
// sanitized afterwards. Panics inside schemas become a single error.
//
// The result always carries the elapsed time. Under the permissive level
// errors are reported as warnings and the result is valid.
func (s *Service) Validate(ctx context.Context, data any, opts ...CallOption) *result.Result {
	c := s.newCall(opts)
	cfg := s.configFor(c)
	start := time.Now()

	sch, lookupErr := s.resolveSchema(c)
	label := schemaLabel(sch, c.schemaName)

	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("guard.field", c.field),
		attribute.String("guard.schema", label),
	))
	defer span.End()

	var r *result.Result
	switch {
	case lookupErr != nil:
		r = result.Invalid(c.field, data, result.KindSystem, fmt.Sprintf("Schema '%s' is not registered", c.schemaName))
	case sch == nil:
		r = s.validateBasic(ctx, data, c.field, cfg)
	default:
		r = s.validateSchema(ctx, sch, data, c.field, cfg)
	}

	r.Duration = time.Since(start)
	applyLevel(r, cfg.Level)
	s.observe(ctx, r, label, cfg)

	span.SetAttributes(attribute.Bool("guard.valid", r.Valid))
	if !r.Valid {
		span.SetStatus(codes.Error, "validation failed")
	}

	return r
}

// ValidateMany validates every item with the same options. Items are named
// "item_<i>", or "<field>[<i>]" when a field name is given.
func (s *Service) ValidateMany(ctx context.Context, items []any, opts ...CallOption) []*result.Result {
	base := s.newCall(opts).field
	out := make([]*result.Result, len(items))
	for i, item := range items {
		field := fmt.Sprintf("item_%d", i)
		if base != "" {
			field = fmt.Sprintf("%s[%d]", base, i)
		}
		out[i] = s.Validate(ctx, item, append(slices.Clip(opts), WithField(field))...)
	}

	return out
}

func (s *Service) resolveSchema(c *call) (schema.Schema, error) {
	if c.schema != nil || c.schemaName == "" {
		return c.schema, nil
	}

	sch, err := s.rt.registry.Compiled(c.schemaName)
	if errors.Is(err, ErrSchemaNotFound) {
		return nil, err
	}
	if err != nil {
		// Let the schema report its own compilation failure.
		return s.rt.registry.Get(c.schemaName)
	}

	return sch, nil
}

// cacheable reports whether sch has a pointer identity to key results on.
func cacheable(sch schema.Schema) bool {
	return reflect.ValueOf(sch).Kind() == reflect.Pointer
}

// cacheScope ties a fingerprint to one schema instance and the effective
// configuration of the call.
func cacheScope(sch schema.Schema, cfg config.Config) string {
	return fmt.Sprintf("%s|%p|%#v", sch.Name(), sch, cfg)
}

func schemaLabel(sch schema.Schema, name string) string {
	if sch != nil {
		return sch.Name()
	}

	return name
}

func (s *Service) validateBasic(ctx context.Context, data any, field string, cfg config.Config) *result.Result {
	r := result.New(field, data)
	if cfg.EnableSanitization {
		s.sanitizeInto(ctx, r, cfg)
	}
	checkLimits(r, r.Value, cfg)

	return r
}

func (s *Service) validateSchema(ctx context.Context, sch schema.Schema, data any, field string, cfg config.Config) *result.Result {
	var key uint64
	caching := cfg.EnableSchemaCaching && cacheable(sch)
	if caching {
		key = Fingerprint(data, cacheScope(sch, cfg))
		if r, ok := s.rt.cache.Get(key, sch); ok {
			s.rt.counters.CacheHit()
			s.recorder.RecordCacheLookup(ctx, true)
			r.Field = field
			r.SetMeta("cached", true)
			return r
		}
		s.rt.counters.CacheMiss()
		s.recorder.RecordCacheLookup(ctx, false)
	}

	r := s.runSchema(ctx, sch, data, field)
	if r.Valid && cfg.EnableSanitization {
		s.sanitizeInto(ctx, r, cfg)
	}
	if caching {
		s.rt.cache.Put(key, sch, r)
	}

	return r
}

func (s *Service) runSchema(ctx context.Context, sch schema.Schema, data any, field string) (r *result.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ValidationPanic(ctx, field, sch.Name(), rec)
			r = result.Invalid(field, data, result.KindSystem, fmt.Sprintf("Validation exception: %v", rec))
		}
	}()

	r = sch.Validate(ctx, data, field)
	if r == nil {
		r = result.Invalid(field, data, result.KindSystem, "Validation exception: schema returned no result")
	}

	return r
}

// sanitizeInto runs the automatic sanitizers over r.Value and merges the
// outcome into r.
func (s *Service) sanitizeInto(ctx context.Context, r *result.Result, cfg config.Config) {
	sr := s.sanitizerFor(cfg).Sanitize(r.Value, sanitize.ModeAuto)
	s.recorder.RecordSanitization(ctx, sanitize.ModeAuto.String(), sr.HasWarnings())
	r.Merge(sr, "")
	if sr.Valid {
		r.Value = sr.Value
	}
}

// applyLevel turns errors into warnings under the permissive level.
func applyLevel(r *result.Result, level config.Level) {
	if level != config.LevelPermissive {
		return
	}
	for _, issue := range r.Errors {
		r.AddWarning(issue.Kind, permissivePrefix+issue.Message)
	}
	r.Errors = nil
	r.Valid = true
}

func (s *Service) observe(ctx context.Context, r *result.Result, label string, cfg config.Config) {
	s.rt.counters.Observe(r.Valid, r.Duration)
	s.recorder.RecordValidation(ctx, label, r.Valid, r.Duration)

	threshold := cfg.MaxValidationTime()
	if cfg.EnablePerformanceMonitoring && threshold > 0 && r.Duration > threshold {
		s.logger.SlowValidation(ctx, r.Field, label, r.Duration, threshold)
	}
}

// Sanitize cleans data with the sanitizers selected by mode.
func (s *Service) Sanitize(ctx context.Context, data any, mode sanitize.Mode) *result.Result {
	start := time.Now()
	r := s.sanitizer.Sanitize(data, mode)
	r.Duration = time.Since(start)
	s.recorder.RecordSanitization(ctx, mode.String(), r.HasWarnings())

	return r
}

// ValidateModel constructs a value of prototype's type from data using the
// configured model factory. Without a factory the result carries a single
// error.
func (s *Service) ValidateModel(ctx context.Context, data, prototype any, opts ...CallOption) *result.Result {
	cfg := s.configFor(s.newCall(opts))
	m := schema.NewModel(modelName(prototype), prototype,
		schema.WithConfig(cfg),
		schema.WithFactory(s.factory),
	)

	return s.Validate(ctx, data, append(slices.Clip(opts), WithSchema(m))...)
}

func modelName(prototype any) string {
	rt, ok := prototype.(reflect.Type)
	if !ok {
		rt = reflect.TypeOf(prototype)
	}
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil {
		return "model"
	}

	return rt.String()
}

// RegisterSchema adds sch to the registry under sch.Name().
func (s *Service) RegisterSchema(sch schema.Schema) error {
	return s.rt.registry.Register(sch)
}

// Schema returns the schema registered under name.
func (s *Service) Schema(name string) (schema.Schema, error) {
	return s.rt.registry.Get(name)
}

// Schemas returns the registered schema names in sorted order.
func (s *Service) Schemas() []string {
	return s.rt.registry.Names()
}

// RemoveSchema unregisters name.
func (s *Service) RemoveSchema(name string) error {
	if !s.rt.registry.Remove(name) {
		return fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}

	return nil
}

// Metrics returns a snapshot of the validation counters.
func (s *Service) Metrics() metrics.Snapshot {
	return s.rt.counters.Snapshot()
}

// ResetMetrics zeroes the validation counters.
func (s *Service) ResetMetrics() {
	s.rt.counters.Reset()
}
