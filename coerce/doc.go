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

// Package coerce converts untyped values to a requested type on a best
// effort basis.
//
// A [Coercer] is configured with a [Strategy] and converts values to one
// of a closed set of [Target] types:
//
//	c := coerce.New(coerce.Safe)
//	r := c.Coerce("1,234", coerce.TargetInt) // r.Value == 1234, one warning
//
// A value that already has the target type is returned unchanged with no
// warning. Every successful conversion adds exactly one warning naming the
// source and destination types. Failures add a single error and leave the
// value untouched.
//
// # Conversion notes
//
// Strings convert to lists by splitting on commas. A string without a comma
// becomes a one-element list and is never split into characters.
//
// Date-times are parsed with a fixed, ordered list of layouts; numbers are
// Unix epoch seconds. Boolean words (yes/no, on/off, t/f, y/n, 1/0) are
// accepted for booleans and, where unambiguous, for numbers.
package coerce
