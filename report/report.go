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

package report

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"rivaas.dev/guard/config"
	"rivaas.dev/guard/result"
)

// UnknownField groups issues of results that have no field name.
const UnknownField = "unknown"

const (
	summaryErrors   = 5
	summaryWarnings = 3
)

// Report is a read-only view over a batch of results.
type Report struct {
	results []*result.Result
}

// New returns a report over results. Nil results are skipped.
func New(results ...*result.Result) *Report {
	rep := &Report{results: make([]*result.Result, 0, len(results))}
	for _, r := range results {
		if r != nil {
			rep.results = append(rep.results, r)
		}
	}

	return rep
}

// Results returns the results in the order they were added.
func (rep *Report) Results() []*result.Result {
	return slices.Clone(rep.results)
}

// Len returns the number of results.
func (rep *Report) Len() int {
	return len(rep.results)
}

// Valid reports whether every result is valid.
func (rep *Report) Valid() bool {
	for _, r := range rep.results {
		if !r.Valid {
			return false
		}
	}

	return true
}

// Passes applies level to the batch. Strict and lenient levels pass when
// no errors were recorded; permissive always passes.
func (rep *Report) Passes(level config.Level) bool {
	if level == config.LevelPermissive {
		return true
	}

	return rep.ErrorCount() == 0
}

// ErrorCount returns the total number of errors.
func (rep *Report) ErrorCount() int {
	n := 0
	for _, r := range rep.results {
		n += len(r.Errors)
	}

	return n
}

// WarningCount returns the total number of warnings.
func (rep *Report) WarningCount() int {
	n := 0
	for _, r := range rep.results {
		n += len(r.Warnings)
	}

	return n
}

// InvalidCount returns the number of invalid results.
func (rep *Report) InvalidCount() int {
	n := 0
	for _, r := range rep.results {
		if !r.Valid {
			n++
		}
	}

	return n
}

// ErrorsByField groups error messages by result field.
func (rep *Report) ErrorsByField() map[string][]string {
	return rep.group(func(r *result.Result) []result.Issue { return r.Errors })
}

// WarningsByField groups warning messages by result field.
func (rep *Report) WarningsByField() map[string][]string {
	return rep.group(func(r *result.Result) []result.Issue { return r.Warnings })
}

func (rep *Report) group(issues func(*result.Result) []result.Issue) map[string][]string {
	out := make(map[string][]string)
	for _, r := range rep.results {
		for _, issue := range issues(r) {
			field := fieldName(r)
			out[field] = append(out[field], issue.Message)
		}
	}

	return out
}

func fieldName(r *result.Result) string {
	if r.Field == "" {
		return UnknownField
	}

	return r.Field
}

// AverageTime returns the mean validation duration, or zero for an empty
// report.
func (rep *Report) AverageTime() time.Duration {
	if len(rep.results) == 0 {
		return 0
	}
	var total time.Duration
	for _, r := range rep.results {
		total += r.Duration
	}

	return total / time.Duration(len(rep.results))
}

// MaxTime returns the longest validation duration.
func (rep *Report) MaxTime() time.Duration {
	var longest time.Duration
	for _, r := range rep.results {
		longest = max(longest, r.Duration)
	}

	return longest
}

// Summary returns a short description listing the first few errors and
// warnings.
func (rep *Report) Summary() string {
	var b strings.Builder

	state := "passed"
	if !rep.Valid() {
		state = "failed"
	}
	fmt.Fprintf(&b, "Validation %s: %d results, %d errors, %d warnings",
		state, len(rep.results), rep.ErrorCount(), rep.WarningCount())

	writeIssues(&b, "Errors", rep.issues(func(r *result.Result) []result.Issue { return r.Errors }), summaryErrors)
	writeIssues(&b, "Warnings", rep.issues(func(r *result.Result) []result.Issue { return r.Warnings }), summaryWarnings)

	return b.String()
}

func (rep *Report) issues(pick func(*result.Result) []result.Issue) []string {
	var out []string
	for _, r := range rep.results {
		for _, issue := range pick(r) {
			out = append(out, fieldName(r)+": "+issue.Message)
		}
	}

	return out
}

func writeIssues(b *strings.Builder, title string, lines []string, limit int) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:", title)
	for _, line := range lines[:min(limit, len(lines))] {
		fmt.Fprintf(b, "\n  - %s", line)
	}
	if extra := len(lines) - limit; extra > 0 {
		fmt.Fprintf(b, "\n  +%d more", extra)
	}
}

// MarshalJSON renders the report's derived statistics and results.
func (rep *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Valid         bool                `json:"is_valid"`
		ErrorCount    int                 `json:"error_count"`
		WarningCount  int                 `json:"warning_count"`
		Errors        map[string][]string `json:"errors_by_field"`
		Warnings      map[string][]string `json:"warnings_by_field"`
		AverageTimeMS float64             `json:"avg_validation_time_ms"`
		MaxTimeMS     float64             `json:"max_validation_time_ms"`
		Results       []*result.Result    `json:"results"`
	}{
		Valid:         rep.Valid(),
		ErrorCount:    rep.ErrorCount(),
		WarningCount:  rep.WarningCount(),
		Errors:        rep.ErrorsByField(),
		Warnings:      rep.WarningsByField(),
		AverageTimeMS: milliseconds(rep.AverageTime()),
		MaxTimeMS:     milliseconds(rep.MaxTime()),
		Results:       rep.results,
	})
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Fields returns the sorted names of fields with at least one issue.
func (rep *Report) Fields() []string {
	fields := rep.ErrorsByField()
	maps.Copy(fields, rep.WarningsByField())

	return slices.Sorted(maps.Keys(fields))
}
