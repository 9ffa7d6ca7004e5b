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

package metrics

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Total       int64
	Succeeded   int64
	Failed      int64
	TotalTime   time.Duration
	MaxTime     time.Duration
	CacheHits   int64
	CacheMisses int64
}

// AverageTime returns the mean validation time.
func (s Snapshot) AverageTime() time.Duration {
	if s.Total == 0 {
		return 0
	}

	return s.TotalTime / time.Duration(s.Total)
}

// SuccessRate returns the fraction of validations that passed, in [0, 1].
func (s Snapshot) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Succeeded) / float64(s.Total)
}

// CacheHitRate returns the fraction of cache lookups that hit, in [0, 1].
func (s Snapshot) CacheHitRate() float64 {
	lookups := s.CacheHits + s.CacheMisses
	if lookups == 0 {
		return 0
	}

	return float64(s.CacheHits) / float64(lookups)
}

// Map renders the snapshot with snake_case keys and millisecond timings.
func (s Snapshot) Map() map[string]any {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

	return map[string]any{
		"total_validations":      s.Total,
		"successful_validations": s.Succeeded,
		"failed_validations":     s.Failed,
		"total_time_ms":          ms(s.TotalTime),
		"avg_time_ms":            ms(s.AverageTime()),
		"max_time_ms":            ms(s.MaxTime),
		"cache_hits":             s.CacheHits,
		"cache_misses":           s.CacheMisses,
		"success_rate":           s.SuccessRate(),
		"cache_hit_rate":         s.CacheHitRate(),
	}
}

// Counters accumulates validation statistics. The zero value is ready to
// use.
type Counters struct {
	mu sync.Mutex
	s  Snapshot
}

// Observe records one validation.
func (c *Counters) Observe(valid bool, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.s.Total++
	if valid {
		c.s.Succeeded++
	} else {
		c.s.Failed++
	}
	c.s.TotalTime += elapsed
	c.s.MaxTime = max(c.s.MaxTime, elapsed)
}

// CacheHit records a cache hit.
func (c *Counters) CacheHit() {
	c.mu.Lock()
	c.s.CacheHits++
	c.mu.Unlock()
}

// CacheMiss records a cache miss.
func (c *Counters) CacheMiss() {
	c.mu.Lock()
	c.s.CacheMisses++
	c.mu.Unlock()
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.s
}

// Reset clears all totals.
func (c *Counters) Reset() {
	c.mu.Lock()
	c.s = Snapshot{}
	c.mu.Unlock()
}
