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
	"time"

	"github.com/cespare/xxhash/v2"

	"rivaas.dev/guard/result"
)

// Cache stores validation results by content fingerprint.
//
// Each entry remembers the owner it was stored for, usually the schema
// that produced it, and only that owner gets it back. Owners must be
// comparable.
//
// Entries expire after the TTL. When the cache is full, the oldest tenth
// of the entries (at least one) is evicted before inserting. Safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]cacheEntry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type cacheEntry struct {
	res     *result.Result
	owner   any
	created time.Time
}

// NewCache returns a cache holding at most maxSize entries for ttl each.
// A non-positive ttl disables expiry; a non-positive maxSize disables
// the size bound.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		entries: make(map[uint64]cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Fingerprint hashes value, its Go type and scope.
func Fingerprint(value any, scope string) uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "%T|%#v|%s", value, value, scope)

	return d.Sum64()
}

// Get returns a copy of the result stored for key by owner.
func (c *Cache) Get(key uint64, owner any) (*result.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.owner != owner {
		return nil, false
	}
	if c.expired(e) {
		delete(c.entries, key)
		return nil, false
	}

	return e.res.Clone(), true
}

// Put stores a copy of r under key for owner.
func (c *Cache) Put(key uint64, owner any, r *result.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evict()
	}
	c.entries[key] = cacheEntry{res: r.Clone(), owner: owner, created: c.now()}
}

// evict drops expired entries, then the oldest tenth if still full.
// Must be called with c.mu held.
func (c *Cache) evict() {
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}

	keys := slices.SortedFunc(maps.Keys(c.entries), func(a, b uint64) int {
		return c.entries[a].created.Compare(c.entries[b].created)
	})
	n := max(1, len(keys)/10)
	for _, k := range keys[:n] {
		delete(c.entries, k)
	}
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.created) >= c.ttl
}

// Len returns the number of stored entries, including expired ones not yet
// collected.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}
