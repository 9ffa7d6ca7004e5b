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

package contract

import (
	"fmt"
	"reflect"
	"slices"
	"unicode/utf8"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/config"
	"rivaas.dev/guard/result"
)

// Validator evaluates contracts under a configuration and provides the
// checks that need no contract.
type Validator struct {
	cfg config.Config
}

// NewValidator returns a validator using cfg's string length limit for
// the no-contract heuristic.
func NewValidator(cfg config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks data against c. With a nil contract a permissive
// heuristic applies: suspicious values produce warnings, never errors.
func (v *Validator) Validate(data any, c *Contract, field string) *result.Result {
	if c != nil {
		return c.Validate(data, field)
	}

	r := result.New(field, data)
	switch x := data.(type) {
	case nil:
		r.AddWarning(result.KindStructural, "Output is null")
	case string:
		if x == "" {
			r.AddWarning(result.KindConstraint, "Output is an empty string")
		} else if n := utf8.RuneCountInString(x); v.cfg.MaxStringLength > 0 && n > v.cfg.MaxStringLength {
			r.AddWarningf(result.KindConstraint, "Output string is very long (%d characters)", n)
		}
	default:
		rv := reflect.ValueOf(data)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Len() == 0 {
				r.AddWarning(result.KindStructural, "Output is an empty list")
			}
		case reflect.Map:
			if rv.Len() == 0 {
				r.AddWarning(result.KindStructural, "Output is an empty dict")
			}
		}
	}

	return r
}

// HTTPOption configures [Validator.ValidateHTTPResponse].
type HTTPOption func(*httpOptions)

type httpOptions struct {
	expected    []int
	requireBody bool
}

// WithExpectedStatus lists the accepted status codes. By default any 2xx
// code is accepted.
func WithExpectedStatus(codes ...int) HTTPOption {
	return func(o *httpOptions) { o.expected = append(o.expected, codes...) }
}

// WithOptionalBody accepts responses without a body.
func WithOptionalBody() HTTPOption {
	return func(o *httpOptions) { o.requireBody = false }
}

// ValidateHTTPResponse checks a response given as a mapping with
// "status_code", "body" or "data", and "headers" keys.
func (v *Validator) ValidateHTTPResponse(resp any, opts ...HTTPOption) *result.Result {
	o := &httpOptions{requireBody: true}
	for _, opt := range opts {
		opt(o)
	}

	r := result.New("response", resp)
	m, ok := resp.(map[string]any)
	if !ok {
		r.AddErrorf(result.KindStructural, "Expected dict, got %s", coerce.TypeName(resp))
		return r
	}

	raw, ok := m["status_code"]
	if !ok {
		r.AddError(result.KindStructural, "Missing status_code")
	} else if code, ok := statusCode(raw); !ok {
		r.AddErrorf(result.KindStructural, "status_code must be an integer, got %s", coerce.TypeName(raw))
	} else if !statusAccepted(code, o.expected) {
		r.AddErrorf(result.KindConstraint, "Unexpected status code %d (expected %s)", code, describeExpected(o.expected))
	}

	if o.requireBody {
		_, hasBody := m["body"]
		_, hasData := m["data"]
		if !hasBody && !hasData {
			r.AddError(result.KindStructural, "Response body is missing")
		}
	}
	if headers, ok := m["headers"]; ok && headers != nil {
		if rv := reflect.ValueOf(headers); rv.Kind() != reflect.Map {
			r.AddErrorf(result.KindStructural, "Headers must be a dict, got %s", coerce.TypeName(headers))
		}
	}

	return r
}

func statusCode(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x == float64(int(x)) {
			return int(x), true
		}
		return 0, false
	case float32:
		return statusCode(float64(x))
	}
	if !coerce.Matches(v, coerce.TargetInt) {
		return 0, false
	}

	return int(reflect.ValueOf(v).Convert(reflect.TypeOf(0)).Int()), true
}

func statusAccepted(code int, expected []int) bool {
	if len(expected) == 0 {
		return code >= 200 && code < 300
	}

	return slices.Contains(expected, code)
}

func describeExpected(expected []int) string {
	if len(expected) == 0 {
		return "2xx"
	}

	return fmt.Sprint(expected)
}

// errorFields are keys at least one of which an API error body carries.
var errorFields = []string{"error", "errors", "message", "detail"}

// ValidateAPIError checks the shape of an API error body.
func (v *Validator) ValidateAPIError(data any) *result.Result {
	r := result.New("error", data)
	m, ok := data.(map[string]any)
	if !ok {
		r.AddErrorf(result.KindStructural, "Expected dict, got %s", coerce.TypeName(data))
		return r
	}

	if !slices.ContainsFunc(errorFields, func(k string) bool { _, ok := m[k]; return ok }) {
		r.AddError(result.KindStructural, "Error response must contain one of: error, errors, message, detail")
	}
	if errs, ok := m["errors"]; ok {
		switch errs.(type) {
		case []any, map[string]any:
		default:
			r.AddErrorf(result.KindStructural, "'errors' must be a list or a dict, got %s", coerce.TypeName(errs))
		}
	}

	return r
}
