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
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/guard/report"
)

// JSONAPI formats errors as JSON:API error documents. Field-grouped
// details become one error object per message, pointing at the field.
type JSONAPI struct {
	// StatusResolver overrides the status code.
	StatusResolver func(err error) int

	// ErrorIDGenerator overrides error object IDs. Defaults to random UUIDs.
	ErrorIDGenerator func() string
}

// NewJSONAPI returns a JSON:API formatter.
func NewJSONAPI() *JSONAPI {
	return &JSONAPI{}
}

type jsonAPIError struct {
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status,omitempty"`
	Code   string         `json:"code,omitempty"`
	Title  string         `json:"title,omitempty"`
	Detail string         `json:"detail,omitempty"`
	Source *jsonAPISource `json:"source,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type jsonAPISource struct {
	Pointer string `json:"pointer,omitempty"`
}

type jsonAPIDocument struct {
	Errors []jsonAPIError `json:"errors"`
}

// Format implements [Formatter].
func (f *JSONAPI) Format(_ *http.Request, err error) Response {
	status := statusOf(f.StatusResolver, err)
	gen := f.ErrorIDGenerator
	if gen == nil {
		gen = newErrorID
	}
	base := jsonAPIError{
		Status: strconv.Itoa(status),
		Code:   codeOf(err),
		Title:  http.StatusText(status),
	}

	var out []jsonAPIError
	details, ok := detailsOf(err)
	if byField, isMap := details.(map[string][]string); isMap {
		for _, field := range slices.Sorted(maps.Keys(byField)) {
			for _, msg := range byField[field] {
				e := base
				e.ID = gen()
				e.Detail = msg
				if ptr := fieldPointer(field); ptr != "" {
					e.Source = &jsonAPISource{Pointer: ptr}
				}
				out = append(out, e)
			}
		}
	}
	if len(out) == 0 {
		e := base
		e.ID = gen()
		e.Detail = err.Error()
		if ok && details != nil {
			e.Meta = map[string]any{"details": details}
		}
		out = append(out, e)
	}

	return Response{
		Status:      status,
		ContentType: "application/vnd.api+json; charset=utf-8",
		Body:        jsonAPIDocument{Errors: out},
	}
}

// fieldPointer converts a dotted field path with optional [i] indexes into
// a JSON pointer under /data/attributes.
func fieldPointer(field string) string {
	if field == "" || field == report.UnknownField {
		return ""
	}
	r := strings.NewReplacer(".", "/", "[", "/", "]", "")

	return "/data/attributes/" + r.Replace(field)
}
