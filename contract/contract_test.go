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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/config"
	"rivaas.dev/guard/result"
)

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind Kind
		opts []Option
	}{
		{name: "unknown kind", kind: Kind(42)},
		{name: "custom without predicates", kind: KindCustom},
		{name: "nil predicate", kind: KindCustom, opts: []Option{WithPredicate("p", nil)}},
		{name: "inverted length", kind: KindList, opts: []Option{WithLength(5, 1)}},
		{name: "negative length", kind: KindList, opts: []Option{WithLength(-1, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New("c", tt.kind, tt.opts...)
			require.ErrorIs(t, err, ErrInvalidContract)
			assert.Panics(t, func() { MustNew("c", tt.kind, tt.opts...) })
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for k := KindDict; k <= KindCustom; k++ {
		got, err := ParseKind(strings.ToUpper(k.String()))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("xml")
	assert.ErrorIs(t, err, ErrInvalidContract)
}

func TestDict_ReportsEveryMismatch(t *testing.T) {
	t.Parallel()

	c := MustNew("user", KindDict,
		WithRequiredFields("id", "name"),
		WithFieldType("id", coerce.TargetInt),
		WithFieldType("name", coerce.TargetString),
		WithExtraFields(false),
	)
	in := map[string]any{"id": "1", "name": 2, "extra": true}

	r := c.Validate(in, "response")
	assert.False(t, r.Valid)
	assert.Equal(t, []string{
		"Field 'id' expected int, got string",
		"Field 'name' expected string, got int",
		"Unexpected field 'extra'",
	}, r.ErrorMessages())
	assert.Equal(t, in, r.Value)
	assert.Equal(t, "user", r.Metadata["contract"])
}

func TestContract_Validate(t *testing.T) {
	t.Parallel()

	type user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		note string
	}

	tests := []struct {
		name     string
		contract *Contract
		in       any
		errors   []string
		warnings []string
	}{
		{
			name:     "dict ok",
			contract: MustNew("c", KindDict, WithRequiredFields("id"), WithFieldType("id", coerce.TargetInt)),
			in:       map[string]any{"id": 1, "more": "x"},
		},
		{
			name:     "dict missing",
			contract: MustNew("c", KindDict, WithRequiredFields("id")),
			in:       map[string]any{},
			errors:   []string{"Missing required field 'id'"},
		},
		{
			name:     "dict lax types",
			contract: MustNew("c", KindDict, WithFieldType("id", coerce.TargetInt), WithStrictTypes(false)),
			in:       map[string]any{"id": "1"},
		},
		{
			name:     "dict null field skips type check",
			contract: MustNew("c", KindDict, WithFieldType("id", coerce.TargetInt)),
			in:       map[string]any{"id": nil},
		},
		{
			name:     "dict wrong container",
			contract: MustNew("c", KindDict),
			in:       []any{},
			errors:   []string{"Expected dict, got list"},
		},
		{
			name:     "list bounds",
			contract: MustNew("c", KindList, WithLength(1, 2)),
			in:       []string{"a", "b", "c"},
			errors:   []string{"List must contain at most 2 items"},
		},
		{
			name:     "list empty",
			contract: MustNew("c", KindList, WithLength(1, 0)),
			in:       []any{},
			errors:   []string{"List must contain at least 1 items"},
		},
		{
			name:     "list wrong container",
			contract: MustNew("c", KindList),
			in:       "abc",
			errors:   []string{"Expected list, got string"},
		},
		{
			name:     "jsonapi data",
			contract: MustNew("c", KindJSONAPI),
			in:       map[string]any{"data": []any{}, "meta": map[string]any{}},
		},
		{
			name:     "jsonapi null data",
			contract: MustNew("c", KindJSONAPI),
			in:       map[string]any{"data": nil},
		},
		{
			name:     "jsonapi empty",
			contract: MustNew("c", KindJSONAPI),
			in:       map[string]any{"meta": "x"},
			errors: []string{
				"JSON:API document must contain 'data' or 'errors'",
				"'meta' must be an object, got string",
			},
		},
		{
			name:     "jsonapi bad members",
			contract: MustNew("c", KindJSONAPI),
			in:       map[string]any{"data": 1, "errors": map[string]any{}},
			errors: []string{
				"'data' must be an object, an array or null, got int",
				"'errors' must be an array, got dict",
			},
		},
		{
			name:     "rest without common fields",
			contract: MustNew("c", KindREST, WithRequiredFields("id")),
			in:       map[string]any{"id": 1},
			warnings: []string{"Response has none of the common fields: status, success, message, data, error, errors"},
		},
		{
			name:     "rest ok",
			contract: MustNew("c", KindREST),
			in:       map[string]any{"success": true, "data": nil},
		},
		{
			name:     "model by json tag and go name",
			contract: MustNew("c", KindModel, WithRequiredFields("id", "Name"), WithFieldType("id", coerce.TargetInt)),
			in:       &user{ID: 1, Name: "a"},
		},
		{
			name: "model mismatches",
			contract: MustNew("c", KindModel,
				WithRequiredFields("email", "note"),
				WithFieldType("name", coerce.TargetInt),
			),
			in: user{},
			errors: []string{
				"Missing required attribute 'email'",
				"Missing required attribute 'note'",
				"Attribute 'name' expected int, got string",
			},
		},
		{
			name:     "model needs a struct",
			contract: MustNew("c", KindModel),
			in:       map[string]any{},
			errors:   []string{"Expected model, got dict"},
		},
		{
			name:     "scalar type",
			contract: MustNew("c", KindScalar, WithType(coerce.TargetFloat)),
			in:       1,
			errors:   []string{"Expected float, got int"},
		},
		{
			name:     "scalar string length",
			contract: MustNew("c", KindScalar, WithType(coerce.TargetString), WithLength(2, 3)),
			in:       "abcd",
			errors:   []string{"String is too long (maximum 3 characters)"},
		},
		{
			name:     "scalar any",
			contract: MustNew("c", KindScalar),
			in:       struct{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := tt.contract.Validate(tt.in, "out")
			assert.Equal(t, tt.errors == nil, r.Valid)
			assert.Equal(t, tt.errors, nilIfEmpty(r.ErrorMessages()))
			assert.Equal(t, tt.warnings, nilIfEmpty(r.WarningMessages()))
		})
	}
}

func TestCustom_Predicates(t *testing.T) {
	t.Parallel()

	c := MustNew("positive", KindCustom,
		WithPredicate("is int", func(v any) bool { _, ok := v.(int); return ok }),
		WithPredicate("positive", func(v any) bool { return v.(int) > 0 }),
	)

	assert.True(t, c.Validate(3, "").Valid)

	r := c.Validate(-3, "")
	assert.Equal(t, []string{"Custom validation failed: positive"}, r.ErrorMessages())

	r = c.Validate("x", "")
	require.Len(t, r.Errors, 2)
	assert.Equal(t, "Custom validation failed: is int", r.Errors[0].Message)
	assert.Equal(t, result.KindSystem, r.Errors[1].Kind)
	assert.True(t, strings.HasPrefix(r.Errors[1].Message, "Custom validation error in 'positive': "))
}

func TestValidator_Heuristic(t *testing.T) {
	t.Parallel()

	v := NewValidator(config.MustNew(config.WithMaxStringLength(5)))

	tests := []struct {
		name     string
		in       any
		warnings []string
	}{
		{name: "nil", in: nil, warnings: []string{"Output is null"}},
		{name: "empty string", in: "", warnings: []string{"Output is an empty string"}},
		{name: "long string", in: "abcdefg", warnings: []string{"Output string is very long (7 characters)"}},
		{name: "empty list", in: []int{}, warnings: []string{"Output is an empty list"}},
		{name: "empty map", in: map[string]any{}, warnings: []string{"Output is an empty dict"}},
		{name: "plain value", in: 12},
		{name: "short string", in: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := v.Validate(tt.in, nil, "out")
			assert.True(t, r.Valid)
			assert.Equal(t, tt.warnings, nilIfEmpty(r.WarningMessages()))
		})
	}
}

func TestValidator_HTTPResponse(t *testing.T) {
	t.Parallel()

	v := NewValidator(config.Default())

	tests := []struct {
		name   string
		in     any
		opts   []HTTPOption
		errors []string
	}{
		{
			name: "ok",
			in:   map[string]any{"status_code": 201, "body": "x", "headers": map[string]string{}},
		},
		{
			name: "decoded JSON status",
			in:   map[string]any{"status_code": float64(200), "data": nil},
		},
		{
			name:   "unexpected status",
			in:     map[string]any{"status_code": 500, "body": ""},
			errors: []string{"Unexpected status code 500 (expected 2xx)"},
		},
		{
			name:   "explicit expected set",
			in:     map[string]any{"status_code": 200, "body": ""},
			opts:   []HTTPOption{WithExpectedStatus(201, 202)},
			errors: []string{"Unexpected status code 200 (expected [201 202])"},
		},
		{
			name:   "missing everything",
			in:     map[string]any{"headers": "x"},
			errors: []string{"Missing status_code", "Response body is missing", "Headers must be a dict, got string"},
		},
		{
			name: "optional body",
			in:   map[string]any{"status_code": 204},
			opts: []HTTPOption{WithOptionalBody()},
		},
		{
			name:   "bad status type",
			in:     map[string]any{"status_code": "200", "body": ""},
			errors: []string{"status_code must be an integer, got string"},
		},
		{
			name:   "not a mapping",
			in:     []any{},
			errors: []string{"Expected dict, got list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := v.ValidateHTTPResponse(tt.in, tt.opts...)
			assert.Equal(t, tt.errors == nil, r.Valid)
			assert.Equal(t, tt.errors, nilIfEmpty(r.ErrorMessages()))
		})
	}
}

func TestValidator_APIError(t *testing.T) {
	t.Parallel()

	v := NewValidator(config.Default())

	assert.True(t, v.ValidateAPIError(map[string]any{"detail": "nope"}).Valid)
	assert.True(t, v.ValidateAPIError(map[string]any{"errors": []any{"a"}}).Valid)
	assert.True(t, v.ValidateAPIError(map[string]any{"errors": map[string]any{"a": "b"}}).Valid)

	r := v.ValidateAPIError(map[string]any{"code": 1})
	assert.Equal(t, []string{"Error response must contain one of: error, errors, message, detail"}, r.ErrorMessages())

	r = v.ValidateAPIError(map[string]any{"errors": "bad"})
	assert.Equal(t, []string{"'errors' must be a list or a dict, got string"}, r.ErrorMessages())

	r = v.ValidateAPIError("boom")
	assert.Equal(t, []string{"Expected dict, got string"}, r.ErrorMessages())
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}

	return s
}
