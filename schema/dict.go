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
	"slices"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/result"
)

// Dict validates string-keyed mappings.
//
// Keys listed with [WithRequiredFields] must be present. Keys with a field
// schema are validated by it. Any other key is an extra field, kept or
// rejected according to [WithExtraFields] or, by default, the
// configuration's AllowExtraFields.
type Dict struct {
	Base
	fields     map[string]Schema
	required   []string
	allowExtra bool
}

// NewDict returns a mapping schema.
func NewDict(name string, opts ...Option) *Dict {
	o := applyOptions(opts)
	s := &Dict{
		fields:     o.fields,
		required:   o.requiredFs,
		allowExtra: o.cfg.AllowExtraFields,
	}
	if o.allowExtra != nil {
		s.allowExtra = *o.allowExtra
	}
	s.init(name, o)

	return s
}

// Fields returns the names of the fields with a schema, sorted.
func (s *Dict) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Compile compiles every field schema.
func (s *Dict) Compile() error {
	return s.CompileOnce(func() error {
		for _, name := range s.Fields() {
			if err := s.fields[name].Compile(); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}

		return nil
	})
}

// Validate checks data. All fields are checked even after a failure; the
// resulting value holds the validated field values.
func (s *Dict) Validate(ctx context.Context, data any, field string) *result.Result {
	r, done := s.begin(s, data, field)
	if done {
		return r
	}
	if !s.convert(r, coerce.TargetDict, result.KindStructural) {
		return r
	}
	m := r.Value.(map[string]any)

	for _, name := range s.required {
		if _, ok := m[name]; !ok {
			r.AddErrorf(result.KindStructural, "Required field '%s' is missing", name)
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[string]any, len(m))
	for _, k := range keys {
		v := m[k]
		if fs, ok := s.fields[k]; ok {
			fr := fs.Validate(ctx, v, childField(field, k))
			r.Merge(fr, fmt.Sprintf("Field '%s': ", k))
			out[k] = fr.Value
			continue
		}
		if s.allowExtra || slices.Contains(s.required, k) {
			out[k] = v
			continue
		}
		r.AddErrorf(result.KindStructural, "Unexpected field '%s'", k)
	}
	if r.Valid {
		r.Value = out
	}

	return r
}
