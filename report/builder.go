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
	"fmt"
	"net/http"
	"strings"

	"rivaas.dev/guard/result"
)

// maxErrorMessages bounds the number of messages in [Error.Error].
const maxErrorMessages = 3

// Builder collects results for a [Report].
type Builder struct {
	results []*result.Result
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends r.
func (b *Builder) Add(r *result.Result) *Builder {
	if r != nil {
		b.results = append(b.results, r)
	}

	return b
}

// AddAll appends every result.
func (b *Builder) AddAll(results ...*result.Result) *Builder {
	for _, r := range results {
		b.Add(r)
	}

	return b
}

// Build returns a report over the collected results.
func (b *Builder) Build() *Report {
	return New(b.results...)
}

// BuildOrError returns the report, or an [*Error] when any result is
// invalid.
func (b *Builder) BuildOrError() (*Report, error) {
	rep := b.Build()
	if !rep.Valid() {
		return rep, NewError(rep)
	}

	return rep, nil
}

// Error reports a failed batch. Its message lists at most three errors.
type Error struct {
	Report *Report
}

// NewError returns an error for rep.
func NewError(rep *Report) *Error {
	return &Error{Report: rep}
}

// Error returns the first errors followed by a count of the rest.
func (e *Error) Error() string {
	msgs := e.Report.issues(func(r *result.Result) []result.Issue { return r.Errors })
	if len(msgs) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed: ")
	b.WriteString(strings.Join(msgs[:min(maxErrorMessages, len(msgs))], "; "))
	if extra := len(msgs) - maxErrorMessages; extra > 0 {
		fmt.Fprintf(&b, " (and %d more errors)", extra)
	}

	return b.String()
}

// HTTPStatus returns 422 Unprocessable Entity.
func (e *Error) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// Code returns a machine-readable error code.
func (e *Error) Code() string {
	return "validation_failed"
}

// Details returns error messages grouped by field.
func (e *Error) Details() any {
	return e.Report.ErrorsByField()
}
