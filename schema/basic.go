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

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/result"
)

// Basic checks that a value has one type, coercing it when the
// configuration allows.
type Basic struct {
	Base
	target coerce.Target
}

// NewBasic returns a schema accepting values of target.
func NewBasic(name string, target coerce.Target, opts ...Option) *Basic {
	s := &Basic{target: target}
	s.init(name, applyOptions(opts))

	return s
}

// Target returns the expected type.
func (s *Basic) Target() coerce.Target {
	return s.target
}

// Compile marks the schema compiled. Basic has no compiled state.
func (s *Basic) Compile() error {
	return s.CompileOnce(nil)
}

// Validate checks data against the expected type.
func (s *Basic) Validate(_ context.Context, data any, field string) *result.Result {
	r, done := s.begin(s, data, field)
	if done {
		return r
	}
	s.convert(r, s.target, result.KindCoercion)

	return r
}
