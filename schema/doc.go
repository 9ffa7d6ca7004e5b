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

// Package schema provides named, compilable validators for untyped data.
//
// Every schema implements [Schema]. Compilation prepares internal state
// such as regular expressions; it runs at most once per schema, even when
// many goroutines validate concurrently, and is triggered automatically by
// the first call to Validate.
//
// # Variants
//
//   - [Basic]: a type check with optional coercion
//   - [String]: trimming, length bounds and an anchored pattern
//   - [Email]: normalized e-mail addresses
//   - [List]: item counts, uniqueness and per-item schemas
//   - [Dict]: required keys, per-field schemas and an unknown-key policy
//   - [Model]: construction of a Go value through a [ModelFactory]
//   - [JSONSchema]: a JSON Schema document
//
// Schemas never return Go errors for invalid data. They return a
// *result.Result whose messages are prefixed with "Item i: " or
// "Field 'x': " when they come from nested schemas.
//
//	user := schema.NewDict("user",
//	    schema.WithField("email", schema.NewEmail("email")),
//	    schema.WithField("age", schema.NewBasic("age", coerce.TargetInt)),
//	    schema.WithRequiredFields("email"),
//	)
//	r := user.Validate(ctx, map[string]any{"email": "A@B.io", "age": "42"}, "user")
//
// Options not meaningful for a variant are ignored by it.
package schema
