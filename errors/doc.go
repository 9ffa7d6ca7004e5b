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

// Package errors renders validation failures as HTTP error responses.
//
// Three formats are available:
//   - RFC9457: problem details (application/problem+json)
//   - JSONAPI: JSON:API error documents (application/vnd.api+json)
//   - Simple: a flat JSON object (application/json)
//
// Errors control the response through optional interfaces: [ErrorType] for
// the status code, [ErrorCode] for a machine-readable code and
// [ErrorDetails] for structured details. A *report.Error implements all
// three, so a failed batch renders as a 422 listing every error by field.
//
//	rep, err := report.NewBuilder().AddAll(results...).BuildOrError()
//	if err != nil {
//	    _ = errors.Write(w, r, errors.NewRFC9457("https://example.com/problems"), err)
//	    return
//	}
package errors
