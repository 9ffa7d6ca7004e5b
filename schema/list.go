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

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/result"
)

// List validates sequences. A bare string coerces to a one-item list.
// Items failing the item schema are reported and dropped from the
// resulting value.
type List struct {
	Base
	item     Schema
	minItems int
	maxItems int
	unique   bool
}

// NewList returns a list schema.
func NewList(name string, opts ...Option) *List {
	o := applyOptions(opts)
	s := &List{
		item:     o.item,
		minItems: o.minItems,
		maxItems: o.maxItems,
		unique:   o.unique,
	}
	s.init(name, o)

	return s
}

// Compile compiles the item schema.
func (s *List) Compile() error {
	return s.CompileOnce(func() error {
		if s.item == nil {
			return nil
		}
		if err := s.item.Compile(); err != nil {
			return fmt.Errorf("item schema %q: %w", s.item.Name(), err)
		}

		return nil
	})
}

// Validate checks data and every item in it.
func (s *List) Validate(ctx context.Context, data any, field string) *result.Result {
	r, done := s.begin(s, data, field)
	if done {
		return r
	}

	var items []any
	switch v := data.(type) {
	case coerce.Set:
		items = []any(v)
	case coerce.Tuple:
		items = []any(v)
	default:
		if !s.convert(r, coerce.TargetList, result.KindStructural) {
			return r
		}
		items = r.Value.([]any)
	}

	if len(items) < s.minItems {
		r.AddErrorf(result.KindConstraint, "List must contain at least %d items", s.minItems)
	}
	if s.maxItems > 0 && len(items) > s.maxItems {
		r.AddErrorf(result.KindConstraint, "List must contain at most %d items", s.maxItems)
	}
	if s.unique && hasDuplicates(items) {
		r.AddError(result.KindConstraint, "List items must be unique")
	}

	if s.item == nil {
		r.Value = items
		return r
	}

	kept := make([]any, 0, len(items))
	for i, item := range items {
		ir := s.item.Validate(ctx, item, itemField(field, i))
		r.Merge(ir, fmt.Sprintf("Item %d: ", i))
		if ir.Valid {
			kept = append(kept, ir.Value)
		}
	}
	if r.Valid {
		r.Value = kept
	}

	return r
}

func hasDuplicates(items []any) bool {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := coerce.Identity(item)
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}

	return false
}
