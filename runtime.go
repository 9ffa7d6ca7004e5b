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
	"sync"

	"rivaas.dev/guard/config"
	"rivaas.dev/guard/contract"
	"rivaas.dev/guard/metrics"
)

// Runtime is the shared state behind one or more services: the schema
// registry, named output contracts, validation counters and the result
// cache. Services built with the same Runtime see the same schemas and
// report into the same counters.
type Runtime struct {
	registry *Registry
	counters *metrics.Counters
	cache    *Cache

	mu        sync.RWMutex
	contracts map[string]*contract.Contract
}

// NewRuntime returns an empty runtime whose cache is sized by cfg.
func NewRuntime(cfg config.Config) *Runtime {
	return &Runtime{
		registry:  NewRegistry(),
		counters:  &metrics.Counters{},
		cache:     NewCache(cfg.CacheTTL(), cfg.MaxCacheSize),
		contracts: make(map[string]*contract.Contract),
	}
}

// Registry returns the schema registry.
func (rt *Runtime) Registry() *Registry { return rt.registry }

// Counters returns the validation counters.
func (rt *Runtime) Counters() *metrics.Counters { return rt.counters }

// Cache returns the result cache.
func (rt *Runtime) Cache() *Cache { return rt.cache }

func (rt *Runtime) addContract(name string, c *contract.Contract) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, exists := rt.contracts[name]; exists {
		return ErrDuplicateContract
	}
	rt.contracts[name] = c

	return nil
}

func (rt *Runtime) contract(name string) (*contract.Contract, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	c, ok := rt.contracts[name]

	return c, ok
}

// Reset clears schemas, contracts, cached results and counters.
func (rt *Runtime) Reset() {
	rt.registry.Clear()
	rt.cache.Clear()
	rt.counters.Reset()

	rt.mu.Lock()
	clear(rt.contracts)
	rt.mu.Unlock()
}
