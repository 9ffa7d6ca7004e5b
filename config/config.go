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
	"errors"
	"fmt"
	"strings"
	"time"

	"rivaas.dev/guard/coerce"
)

// ErrInvalidConfig is wrapped by every error returned from [Config.Validate].
var ErrInvalidConfig = errors.New("invalid validation config")

// Level decides how a failed validation is reported.
type Level uint8

// Validation levels.
const (
	// LevelStrict fails on any error.
	LevelStrict Level = iota
	// LevelLenient fails on errors and tolerates warnings.
	LevelLenient
	// LevelPermissive never fails and only collects.
	LevelPermissive
)

var levelNames = [...]string{
	LevelStrict:     "strict",
	LevelLenient:    "lenient",
	LevelPermissive: "permissive",
}

// String returns the lower-case level name.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}

	return fmt.Sprintf("level(%d)", l)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range levelNames {
		if name == s {
			*l = Level(i)
			return nil
		}
	}

	return fmt.Errorf("%w: unknown level %q", ErrInvalidConfig, text)
}

// Config holds every behavior toggle consumed by schemas, sanitizers and
// the service. The zero value is not useful; start from [Default] or [New].
type Config struct {
	Level Level `config:"level" json:"level"`

	// MaxValidationTimeMS is the slow-validation threshold. It is only
	// observed, never enforced.
	MaxValidationTimeMS int `config:"max_validation_time_ms" json:"max_validation_time_ms"`

	EnableCoercion     bool            `config:"enable_coercion" json:"enable_coercion"`
	CoercionStrategy   coerce.Strategy `config:"coercion_strategy" json:"coercion_strategy"`
	EnableSanitization bool            `config:"enable_sanitization" json:"enable_sanitization"`
	StrictTypes        bool            `config:"strict_types" json:"strict_types"`
	AllowExtraFields   bool            `config:"allow_extra_fields" json:"allow_extra_fields"`

	EnableXSSProtection           bool `config:"enable_xss_protection" json:"enable_xss_protection"`
	EnableSQLInjectionProtection  bool `config:"enable_sql_injection_protection" json:"enable_sql_injection_protection"`
	EnablePathTraversalProtection bool `config:"enable_path_traversal_protection" json:"enable_path_traversal_protection"`

	MaxStringLength int `config:"max_string_length" json:"max_string_length"`
	MaxListLength   int `config:"max_list_length" json:"max_list_length"`
	MaxDictDepth    int `config:"max_dict_depth" json:"max_dict_depth"`

	EnableSchemaCaching bool `config:"enable_schema_caching" json:"enable_schema_caching"`
	CacheTTLSeconds     int  `config:"cache_ttl_seconds" json:"cache_ttl_seconds"`
	MaxCacheSize        int  `config:"max_cache_size" json:"max_cache_size"`

	EnablePerformanceMonitoring bool `config:"enable_performance_monitoring" json:"enable_performance_monitoring"`
}

// Default returns the configuration used when callers supply none.
func Default() Config {
	return Config{
		Level:                         LevelStrict,
		MaxValidationTimeMS:           1000,
		EnableCoercion:                true,
		CoercionStrategy:              coerce.Safe,
		EnableSanitization:            false,
		StrictTypes:                   false,
		AllowExtraFields:              true,
		EnableXSSProtection:           true,
		EnableSQLInjectionProtection:  true,
		EnablePathTraversalProtection: true,
		MaxStringLength:               10_000,
		MaxListLength:                 1_000,
		MaxDictDepth:                  10,
		EnableSchemaCaching:           true,
		CacheTTLSeconds:               300,
		MaxCacheSize:                  1_000,
		EnablePerformanceMonitoring:   true,
	}
}

// New returns [Default] with opts applied, or an error if the result is
// not a valid configuration.
func New(opts ...Option) (Config, error) {
	cfg := Default().With(opts...)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) Config {
	cfg, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	return cfg
}

// With returns a copy of c with opts applied. c itself is unchanged.
func (c Config) With(opts ...Option) Config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// Validate reports limits that cannot be honored.
func (c Config) Validate() error {
	var errs []error
	check := func(name string, v int) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, name, v))
		}
	}
	check("max_validation_time_ms", c.MaxValidationTimeMS)
	check("max_string_length", c.MaxStringLength)
	check("max_list_length", c.MaxListLength)
	check("max_dict_depth", c.MaxDictDepth)
	check("cache_ttl_seconds", c.CacheTTLSeconds)
	check("max_cache_size", c.MaxCacheSize)

	if int(c.Level) >= len(levelNames) {
		errs = append(errs, fmt.Errorf("%w: unknown level %d", ErrInvalidConfig, c.Level))
	}
	if !c.CoercionStrategy.Valid() {
		errs = append(errs, fmt.Errorf("%w: unknown coercion strategy %d", ErrInvalidConfig, c.CoercionStrategy))
	}

	return errors.Join(errs...)
}

// Strategy returns the coercion strategy implied by c. StrictTypes forces
// [coerce.Strict] regardless of CoercionStrategy.
func (c Config) Strategy() coerce.Strategy {
	if c.StrictTypes {
		return coerce.Strict
	}

	return c.CoercionStrategy
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// MaxValidationTime returns MaxValidationTimeMS as a duration.
func (c Config) MaxValidationTime() time.Duration {
	return time.Duration(c.MaxValidationTimeMS) * time.Millisecond
}
