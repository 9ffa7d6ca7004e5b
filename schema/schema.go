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

package schema

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/config"
	"rivaas.dev/guard/result"
)

// Schema validates data of one shape.
type Schema interface {
	// Name identifies the schema in registries and messages.
	Name() string

	// Compile prepares the schema. It is idempotent and safe for
	// concurrent use; only the first call does any work.
	Compile() error

	// Compiled reports whether Compile has run.
	Compiled() bool

	// Validate checks data. field names the value in the returned result.
	Validate(ctx context.Context, data any, field string) *result.Result
}

// Base carries the state shared by every schema: name, configuration,
// nil handling and the compile-once guard. Custom schemas embed it and
// call [Base.CompileOnce] from their Compile method.
type Base struct {
	name     string
	cfg      config.Config
	coercer  *coerce.Coercer
	required bool
	allowNil bool

	once        sync.Once
	compiled    atomic.Bool
	compileErr  error
	compileTime time.Duration
}

// NewBase returns a Base for name. Options other than [WithConfig],
// [WithRequired] and [WithAllowNil] are ignored.
func NewBase(name string, opts ...Option) *Base {
	b := &Base{}
	b.init(name, applyOptions(opts))

	return b
}

func (b *Base) init(name string, o *options) {
	b.name = name
	b.cfg = o.cfg
	b.coercer = coerce.New(o.cfg.Strategy())
	b.required = o.required
	b.allowNil = o.allowNil
}

// Name returns the schema name.
func (b *Base) Name() string {
	return b.name
}

// Config returns the configuration the schema was built with.
func (b *Base) Config() config.Config {
	return b.cfg
}

// Compiled reports whether compilation has run.
func (b *Base) Compiled() bool {
	return b.compiled.Load()
}

// CompileTime returns how long compilation took. It is zero until compiled.
func (b *Base) CompileTime() time.Duration {
	if !b.compiled.Load() {
		return 0
	}

	return b.compileTime
}

// CompileOnce runs fn the first time it is called and returns fn's error
// on every call. Concurrent callers block until the first one finishes.
// A nil fn marks the schema compiled.
func (b *Base) CompileOnce(fn func() error) error {
	b.once.Do(func() {
		start := time.Now()
		if fn != nil {
			b.compileErr = fn()
		}
		b.compileTime = time.Since(start)
		b.compiled.Store(true)
	})

	return b.compileErr
}

// begin compiles the schema if necessary and handles missing and nil
// values. When done is true r is final.
func (b *Base) begin(s Schema, data any, field string) (r *result.Result, done bool) {
	r = result.New(field, data)
	if err := s.Compile(); err != nil {
		r.AddErrorf(result.KindSystem, "Schema compilation failed: %v", err)
		return r, true
	}

	if data == nil && b.allowNil {
		return r, true
	}
	if b.required && IsMissing(data) {
		r.AddError(result.KindStructural, "Field is required")
		return r, true
	}
	if data == nil {
		r.AddError(result.KindStructural, "Value cannot be null")
		return r, true
	}

	return r, false
}

// coercionAllowed reports whether implicit conversions may be attempted.
func (b *Base) coercionAllowed() bool {
	return b.cfg.EnableCoercion && !b.cfg.StrictTypes
}

// convert brings r.Value to target using the schema's coercer. It reports
// whether r.Value now has the target type. Failures are recorded on r and
// leave r.Value unchanged.
func (b *Base) convert(r *result.Result, target coerce.Target, kind result.Kind) bool {
	return convertWith(b.coercer, b.coercionAllowed(), r, target, kind)
}

func convertWith(c *coerce.Coercer, allowed bool, r *result.Result, target coerce.Target, kind result.Kind) bool {
	if coerce.Matches(r.Value, target) {
		return true
	}
	if !allowed {
		r.AddErrorf(kind, "Expected %s, got %s", target, coerce.TypeName(r.Value))
		return false
	}

	cr := c.Coerce(r.Value, target)
	r.Merge(cr, "")
	if !cr.Valid {
		return false
	}
	r.Value = cr.Value

	return true
}

// IsMissing reports whether v counts as absent for a required field: nil,
// the empty string, or an empty list or map.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// childField joins a parent field name and a child key for nested results.
func childField(parent, child string) string {
	if parent == "" {
		return child
	}

	return parent + "." + child
}

func itemField(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
