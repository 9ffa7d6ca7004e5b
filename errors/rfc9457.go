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
	"net/http"
)

// RFC9457 formats errors as RFC 9457 problem details.
type RFC9457 struct {
	// BaseURL prefixes the error code to form the problem type URI.
	BaseURL string

	// TypeResolver overrides the problem type URI.
	TypeResolver func(err error) string

	// StatusResolver overrides the status code.
	StatusResolver func(err error) int

	// ErrorIDGenerator overrides the error_id extension. Defaults to a
	// random UUID.
	ErrorIDGenerator func() string

	// DisableErrorID omits the error_id extension.
	DisableErrorID bool
}

// NewRFC9457 returns a problem details formatter.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// ProblemDetail is an RFC 9457 problem. Extensions are marshaled inline.
type ProblemDetail struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

var reservedProblemKeys = map[string]bool{
	"type": true, "title": true, "status": true, "detail": true, "instance": true,
}

// MarshalJSON writes the standard members and the extensions in one
// object. Extensions cannot shadow standard members.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		if !reservedProblemKeys[k] {
			m[k] = v
		}
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	return json.Marshal(m)
}

// Format implements [Formatter].
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := statusOf(f.StatusResolver, err)
	p := ProblemDetail{
		Type:       f.problemType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: make(map[string]any),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.Path
	}

	if !f.DisableErrorID {
		gen := f.ErrorIDGenerator
		if gen == nil {
			gen = newErrorID
		}
		p.Extensions["error_id"] = gen()
	}
	if details, ok := detailsOf(err); ok {
		p.Extensions["errors"] = details
	}
	if code := codeOf(err); code != "" {
		p.Extensions["code"] = code
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}
	code := codeOf(err)
	switch {
	case code == "":
		return "about:blank"
	case f.BaseURL != "":
		return f.BaseURL + "/" + code
	default:
		return code
	}
}
