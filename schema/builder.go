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
	"maps"
	"slices"

	"rivaas.dev/guard/coerce"
)

// Builder accumulates named schemas. Options given to [NewBuilder] apply
// to every schema it creates, before the per-schema options.
type Builder struct {
	defaults []Option
	schemas  map[string]Schema
}

// NewBuilder returns an empty builder.
func NewBuilder(defaults ...Option) *Builder {
	return &Builder{
		defaults: defaults,
		schemas:  make(map[string]Schema),
	}
}

func (b *Builder) opts(opts []Option) []Option {
	return append(slices.Clone(b.defaults), opts...)
}

// Add stores s under its name, replacing any schema of the same name.
func (b *Builder) Add(s Schema) *Builder {
	b.schemas[s.Name()] = s
	return b
}

// Basic adds a [Basic] schema.
func (b *Builder) Basic(name string, target coerce.Target, opts ...Option) *Builder {
	return b.Add(NewBasic(name, target, b.opts(opts)...))
}

// String adds a [String] schema.
func (b *Builder) String(name string, opts ...Option) *Builder {
	return b.Add(NewString(name, b.opts(opts)...))
}

// Email adds an [Email] schema.
func (b *Builder) Email(name string, opts ...Option) *Builder {
	return b.Add(NewEmail(name, b.opts(opts)...))
}

// List adds a [List] schema.
func (b *Builder) List(name string, opts ...Option) *Builder {
	return b.Add(NewList(name, b.opts(opts)...))
}

// Dict adds a [Dict] schema.
func (b *Builder) Dict(name string, opts ...Option) *Builder {
	return b.Add(NewDict(name, b.opts(opts)...))
}

// Model adds a [Model] schema.
func (b *Builder) Model(name string, prototype any, opts ...Option) *Builder {
	return b.Add(NewModel(name, prototype, b.opts(opts)...))
}

// JSONSchema adds a [JSONSchema] schema.
func (b *Builder) JSONSchema(name string, doc []byte, opts ...Option) *Builder {
	return b.Add(NewJSONSchema(name, doc, b.opts(opts)...))
}

// Names returns the names added so far, sorted.
func (b *Builder) Names() []string {
	return slices.Sorted(maps.Keys(b.schemas))
}

// Build returns a copy of the accumulated name to schema map.
func (b *Builder) Build() map[string]Schema {
	return maps.Clone(b.schemas)
}
