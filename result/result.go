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

package result

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of validating a single value.
//
// Value only diverges from Original after a successful coercion or
// sanitization. Failing steps leave Value untouched.
type Result struct {
	Field    string
	Valid    bool
	Value    any
	Original any
	Errors   []Issue
	Warnings []Issue
	Duration time.Duration
	Metadata map[string]any
}

// New returns a valid result for value.
func New(field string, value any) *Result {
	return &Result{
		Field:    field,
		Valid:    true,
		Value:    value,
		Original: value,
	}
}

// Invalid returns a result for value carrying a single error.
func Invalid(field string, value any, kind Kind, msg string) *Result {
	r := New(field, value)
	r.AddError(kind, msg)

	return r
}

// AddError records an error and marks the result invalid.
func (r *Result) AddError(kind Kind, msg string) {
	r.Errors = append(r.Errors, Issue{Kind: kind, Message: msg})
	r.Valid = false
}

// AddErrorf is [Result.AddError] with formatting.
func (r *Result) AddErrorf(kind Kind, format string, args ...any) {
	r.AddError(kind, fmt.Sprintf(format, args...))
}

// AddWarning records a warning. Validity is unaffected.
func (r *Result) AddWarning(kind Kind, msg string) {
	r.Warnings = append(r.Warnings, Issue{Kind: kind, Message: msg})
}

// AddWarningf is [Result.AddWarning] with formatting.
func (r *Result) AddWarningf(kind Kind, format string, args ...any) {
	r.AddWarning(kind, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any error was recorded.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether any warning was recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessages returns the error messages in the order they were added.
func (r *Result) ErrorMessages() []string {
	return messages(r.Errors)
}

// WarningMessages returns the warning messages in the order they were added.
func (r *Result) WarningMessages() []string {
	return messages(r.Warnings)
}

// ValidationTimeMS returns Duration in fractional milliseconds.
func (r *Result) ValidationTimeMS() float64 {
	return float64(r.Duration) / float64(time.Millisecond)
}

// SetMeta stores a metadata entry, allocating the map on first use.
func (r *Result) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}

// Merge copies the issues of other into r, prefixing every message with
// prefix. An invalid other makes r invalid. Values are not touched.
func (r *Result) Merge(other *Result, prefix string) {
	if other == nil {
		return
	}
	for _, issue := range other.Errors {
		r.AddError(issue.Kind, prefix+issue.Message)
	}
	for _, issue := range other.Warnings {
		r.AddWarning(issue.Kind, prefix+issue.Message)
	}
	if !other.Valid {
		r.Valid = false
	}
}

// Clone returns a copy of r whose slices and metadata can be modified
// without affecting r. Values are copied shallowly.
func (r *Result) Clone() *Result {
	c := *r
	c.Errors = append([]Issue(nil), r.Errors...)
	c.Warnings = append([]Issue(nil), r.Warnings...)
	if r.Metadata != nil {
		c.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			c.Metadata[k] = v
		}
	}

	return &c
}

// String returns a one-line description such as
// "age: invalid (1 errors, 0 warnings)".
func (r *Result) String() string {
	name := r.Field
	if name == "" {
		name = "value"
	}
	state := "valid"
	if !r.Valid {
		state = "invalid"
	}

	return fmt.Sprintf("%s: %s (%d errors, %d warnings)", name, state, len(r.Errors), len(r.Warnings))
}

// MarshalJSON renders the result with snake_case keys.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field            string         `json:"field_name,omitempty"`
		Valid            bool           `json:"is_valid"`
		Value            any            `json:"value"`
		Original         any            `json:"original_value"`
		Errors           []string       `json:"errors"`
		Warnings         []string       `json:"warnings"`
		ValidationTimeMS float64        `json:"validation_time_ms"`
		Metadata         map[string]any `json:"metadata,omitempty"`
	}{
		Field:            r.Field,
		Valid:            r.Valid,
		Value:            r.Value,
		Original:         r.Original,
		Errors:           nonNil(r.ErrorMessages()),
		Warnings:         nonNil(r.WarningMessages()),
		ValidationTimeMS: r.ValidationTimeMS(),
		Metadata:         r.Metadata,
	})
}

func messages(issues []Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}

	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

// Issue is a single error or warning.
type Issue struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// String returns the message.
func (i Issue) String() string {
	return i.Message
}

// Kind classifies an issue.
type Kind uint8

// Issue kinds.
const (
	// KindStructural marks a missing required field or a container shape mismatch.
	KindStructural Kind = iota + 1
	// KindCoercion marks a failed type conversion or a strict-mode type mismatch.
	KindCoercion
	// KindConstraint marks a length, range, pattern or uniqueness violation.
	KindConstraint
	// KindSecurity marks something a sanitizer found.
	KindSecurity
	// KindSystem marks an unexpected failure inside user supplied code.
	KindSystem
)

var kindNames = map[Kind]string{
	KindStructural: "structural",
	KindCoercion:   "coercion",
	KindConstraint: "constraint",
	KindSecurity:   "security",
	KindSystem:     "system",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}

	return fmt.Errorf("unknown issue kind %q", text)
}
