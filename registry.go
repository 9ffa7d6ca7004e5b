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
	"fmt"
	"maps"
	"slices"
	"sync"

	"rivaas.dev/guard/schema"
)

// Registry holds named schemas and the subset that compiled successfully.
// Entries live until removed or cleared. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	schemas  map[string]schema.Schema
	compiled map[string]schema.Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:  make(map[string]schema.Schema),
		compiled: make(map[string]schema.Schema),
	}
}

// Register adds s under s.Name().
func (r *Registry) Register(s schema.Schema) error {
	if s == nil {
		return ErrNilSchema
	}
	name := s.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSchema, name)
	}
	r.schemas[name] = s

	return nil
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (schema.Schema, error) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}

	return s, nil
}

// Compiled returns the schema registered under name, compiling it on first
// use. Compilation errors are returned on every call.
func (r *Registry) Compiled(name string) (schema.Schema, error) {
	r.mu.RLock()
	s, ok := r.compiled[name]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := s.Compile(); err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	r.mu.Lock()
	// Only cache if the entry was not replaced meanwhile.
	if r.schemas[name] == s {
		r.compiled[name] = s
	}
	r.mu.Unlock()

	return s, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.schemas))
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.schemas)
}

// Remove deletes name and reports whether it was registered.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.schemas[name]
	delete(r.schemas, name)
	delete(r.compiled, name)

	return ok
}

// Clear removes every schema.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.schemas)
	clear(r.compiled)
}
