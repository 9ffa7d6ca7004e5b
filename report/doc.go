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

// Package report aggregates validation results.
//
// A [Report] derives overall validity, counts, per-field grouping, timing
// statistics and a bounded human-readable summary from a set of results.
// A [Builder] collects results fluently and can turn a failing batch into
// an [*Error] whose message is truncated to a few entries.
package report
