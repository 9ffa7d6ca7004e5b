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

package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Formatter turns an error into the parts of an HTTP response.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// Response is a formatted error response. Body is ready for JSON encoding.
type Response struct {
	Status      int
	ContentType string
	Body        any
	Headers     http.Header
}

// ErrorType lets an error choose its HTTP status.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails lets an error expose structured details. Details returning
// map[string][]string are treated as messages grouped by field.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode lets an error expose a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// Write formats err with f and writes the response to w.
func Write(w http.ResponseWriter, req *http.Request, f Formatter, err error) error {
	resp := f.Format(req, err)
	for k, vs := range resp.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)

	return json.NewEncoder(w).Encode(resp.Body)
}

// WithStatus wraps err so that it reports status. A nil err uses the
// status text as its message.
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }

// statusOf resolves the status for err: resolver first, then [ErrorType],
// then 500.
func statusOf(resolver func(error) int, err error) int {
	if resolver != nil {
		return resolver(err)
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

func codeOf(err error) string {
	var coded ErrorCode
	if errors.As(err, &coded) {
		return coded.Code()
	}

	return ""
}

func detailsOf(err error) (any, bool) {
	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		return detailed.Details(), true
	}

	return nil, false
}

func newErrorID() string {
	return uuid.NewString()
}
