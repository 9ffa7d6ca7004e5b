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

package config

import (
	"time"

	"rivaas.dev/guard/coerce"
)

// Option modifies a [Config].
type Option func(*Config)

// WithLevel sets the validation level.
func WithLevel(level Level) Option {
	return func(c *Config) { c.Level = level }
}

// WithCoercion enables or disables type coercion.
func WithCoercion(enabled bool) Option {
	return func(c *Config) { c.EnableCoercion = enabled }
}

// WithCoercionStrategy sets the strategy used when coercion is enabled.
func WithCoercionStrategy(s coerce.Strategy) Option {
	return func(c *Config) { c.CoercionStrategy = s }
}

// WithSanitization enables or disables sanitization of validated values.
func WithSanitization(enabled bool) Option {
	return func(c *Config) { c.EnableSanitization = enabled }
}

// WithStrictTypes disables every implicit conversion when enabled.
func WithStrictTypes(enabled bool) Option {
	return func(c *Config) { c.StrictTypes = enabled }
}

// WithExtraFields controls whether unknown mapping keys pass through.
func WithExtraFields(allowed bool) Option {
	return func(c *Config) { c.AllowExtraFields = allowed }
}

// WithXSSProtection toggles the HTML sanitizer in automatic mode.
func WithXSSProtection(enabled bool) Option {
	return func(c *Config) { c.EnableXSSProtection = enabled }
}

// WithSQLInjectionProtection toggles the SQL sanitizer in automatic mode.
func WithSQLInjectionProtection(enabled bool) Option {
	return func(c *Config) { c.EnableSQLInjectionProtection = enabled }
}

// WithPathTraversalProtection toggles the path sanitizer in automatic mode.
func WithPathTraversalProtection(enabled bool) Option {
	return func(c *Config) { c.EnablePathTraversalProtection = enabled }
}

// WithMaxStringLength limits the length of top-level strings, in runes.
func WithMaxStringLength(n int) Option {
	return func(c *Config) { c.MaxStringLength = n }
}

// WithMaxListLength limits the length of top-level lists.
func WithMaxListLength(n int) Option {
	return func(c *Config) { c.MaxListLength = n }
}

// WithMaxDictDepth limits mapping nesting.
func WithMaxDictDepth(n int) Option {
	return func(c *Config) { c.MaxDictDepth = n }
}

// WithSchemaCaching toggles compiled-schema and result caching.
func WithSchemaCaching(enabled bool) Option {
	return func(c *Config) { c.EnableSchemaCaching = enabled }
}

// WithCacheTTL sets how long cached results stay fresh. Sub-second
// durations round down.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) { c.CacheTTLSeconds = int(ttl / time.Second) }
}

// WithMaxCacheSize bounds the number of cached results.
func WithMaxCacheSize(n int) Option {
	return func(c *Config) { c.MaxCacheSize = n }
}

// WithMaxValidationTime sets the slow-validation threshold.
func WithMaxValidationTime(d time.Duration) Option {
	return func(c *Config) { c.MaxValidationTimeMS = int(d / time.Millisecond) }
}

// WithPerformanceMonitoring toggles slow-validation logging.
func WithPerformanceMonitoring(enabled bool) Option {
	return func(c *Config) { c.EnablePerformanceMonitoring = enabled }
}
