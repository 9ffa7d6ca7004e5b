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

// Package result defines the record produced by every validation,
// coercion and sanitization step.
//
// A [Result] carries the validated value alongside the value it started
// from, the issues found while producing it and how long that took.
// Adding an error always marks the result invalid; warnings never do.
//
//	r := result.New("age", "30")
//	r.AddWarning(result.KindCoercion, "Coerced string to int")
//	r.Value = 30
//
// Every issue is classified with a [Kind] so callers can tell structural
// problems from constraint violations or security findings without parsing
// messages.
package result
