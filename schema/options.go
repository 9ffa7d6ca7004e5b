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

import "rivaas.dev/guard/config"

// Option configures a schema.
type Option func(*options)

type options struct {
	cfg      config.Config
	required bool
	allowNil bool

	coerce    *bool
	strip     bool
	minLength int
	maxLength int
	pattern   string

	item     Schema
	minItems int
	maxItems int
	unique   bool

	fields     map[string]Schema
	requiredFs []string
	allowExtra *bool

	factory ModelFactory
}

func applyOptions(opts []Option) *options {
	o := &options{cfg: config.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o
}

// WithConfig sets the configuration the schema validates under.
// Defaults to config.Default().
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithRequired treats nil, "", empty lists and empty maps as missing.
func WithRequired() Option {
	return func(o *options) { o.required = true }
}

// WithAllowNil accepts nil as a valid value.
func WithAllowNil() Option {
	return func(o *options) { o.allowNil = true }
}

// WithCoercion overrides whether [String] converts non-string input.
// By default it follows the configuration.
func WithCoercion(enabled bool) Option {
	return func(o *options) { o.coerce = &enabled }
}

// WithStrip trims surrounding whitespace from strings.
func WithStrip() Option {
	return func(o *options) { o.strip = true }
}

// WithLength bounds string length in characters. A max of zero means no
// upper bound.
func WithLength(minLength, maxLength int) Option {
	return func(o *options) {
		o.minLength = minLength
		o.maxLength = maxLength
	}
}

// WithPattern requires strings to match pattern in full.
func WithPattern(pattern string) Option {
	return func(o *options) { o.pattern = pattern }
}

// WithItems validates every list item against s.
func WithItems(s Schema) Option {
	return func(o *options) { o.item = s }
}

// WithItemCount bounds the number of list items. A max of zero means no
// upper bound.
func WithItemCount(minItems, maxItems int) Option {
	return func(o *options) {
		o.minItems = minItems
		o.maxItems = maxItems
	}
}

// WithUnique rejects lists containing equal items.
func WithUnique() Option {
	return func(o *options) { o.unique = true }
}

// WithField validates the mapping key name against s.
func WithField(name string, s Schema) Option {
	return func(o *options) {
		if o.fields == nil {
			o.fields = make(map[string]Schema)
		}
		o.fields[name] = s
	}
}

// WithRequiredFields lists mapping keys that must be present.
func WithRequiredFields(names ...string) Option {
	return func(o *options) { o.requiredFs = append(o.requiredFs, names...) }
}

// WithExtraFields overrides whether unknown mapping keys pass through.
// By default it follows the configuration.
func WithExtraFields(allowed bool) Option {
	return func(o *options) { o.allowExtra = &allowed }
}

// WithFactory sets the capability used by [Model] to build values.
func WithFactory(f ModelFactory) Option {
	return func(o *options) { o.factory = f }
}
