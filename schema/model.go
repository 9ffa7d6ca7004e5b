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
	"errors"
	"fmt"
	"reflect"
	"strings"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/result"
)

// ErrNoModelFactory is reported when a [Model] has no factory to build
// values with.
var ErrNoModelFactory = errors.New("no model factory configured")

// ModelFactory builds a value of type target from a field mapping. It is
// supplied by the caller; the engine never constructs models itself.
type ModelFactory interface {
	Construct(ctx context.Context, target reflect.Type, fields map[string]any) (any, error)
}

// ModelFactoryFunc adapts a function to [ModelFactory].
type ModelFactoryFunc func(ctx context.Context, target reflect.Type, fields map[string]any) (any, error)

// Construct calls f.
func (f ModelFactoryFunc) Construct(ctx context.Context, target reflect.Type, fields map[string]any) (any, error) {
	return f(ctx, target, fields)
}

// Model validates mappings by constructing a Go value from them.
// Any construction failure collapses to one error.
type Model struct {
	Base
	target  reflect.Type
	factory ModelFactory
}

// NewModel returns a model schema for the type of prototype. Pointer
// prototypes are dereferenced, so NewModel("user", (*User)(nil)) and
// NewModel("user", User{}) are equivalent.
func NewModel(name string, prototype any, opts ...Option) *Model {
	o := applyOptions(opts)
	s := &Model{
		target:  modelType(prototype),
		factory: o.factory,
	}
	s.init(name, o)

	return s
}

func modelType(prototype any) reflect.Type {
	if rt, ok := prototype.(reflect.Type); ok {
		return rt
	}
	rt := reflect.TypeOf(prototype)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	return rt
}

// Target returns the constructed type.
func (s *Model) Target() reflect.Type {
	return s.target
}

// Compile checks the schema has a target type.
func (s *Model) Compile() error {
	return s.CompileOnce(func() error {
		if s.target == nil {
			return errors.New("model type is nil")
		}

		return nil
	})
}

// Validate constructs a value from data. Values already of the target
// type, or pointers to it, pass through unchanged.
func (s *Model) Validate(ctx context.Context, data any, field string) (r *result.Result) {
	r, done := s.begin(s, data, field)
	if done {
		return r
	}
	if rt := reflect.TypeOf(data); rt == s.target || (rt.Kind() == reflect.Pointer && rt.Elem() == s.target) {
		return r
	}

	fields, ok := data.(map[string]any)
	if !ok {
		r.AddErrorf(result.KindStructural, "Model validation failed: expected dict, got %s", coerce.TypeName(data))
		return r
	}
	if s.factory == nil {
		r.AddErrorf(result.KindStructural, "Model validation failed: %v", ErrNoModelFactory)
		return r
	}

	defer func() {
		if rec := recover(); rec != nil {
			r = result.Invalid(field, data, result.KindSystem, fmt.Sprintf("Model validation failed: %v", rec))
		}
	}()

	v, err := s.factory.Construct(ctx, s.target, fields)
	if err != nil {
		r.AddErrorf(result.KindStructural, "Model validation failed: %v", err)
		return r
	}
	r.Value = v

	return r
}

// jsonFieldName names struct fields by their json tag in messages.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}
