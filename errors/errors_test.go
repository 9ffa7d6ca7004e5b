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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/guard/report"
	"rivaas.dev/guard/result"
)

func validationError() *report.Error {
	email := result.Invalid("user.email", "x", result.KindConstraint, "Invalid email format")
	tags := result.New("tags[1]", 1)
	tags.AddError(result.KindCoercion, "Expected string, got int")
	return report.NewError(report.New(email, tags, result.New("ok", 1)))
}

type codedError struct{}

func (codedError) Error() string { return "rate limited" }
func (codedError) Code() string  { return "rate_limited" }

func fixedID() string { return "id-1" }

func toJSON(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestRFC9457(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/users", nil)

	tests := []struct {
		name     string
		f        *RFC9457
		err      error
		status   int
		wantType string
		check    func(t *testing.T, body map[string]any)
	}{
		{
			name:     "validation error",
			f:        &RFC9457{BaseURL: "https://example.com/problems", ErrorIDGenerator: fixedID},
			err:      validationError(),
			status:   http.StatusUnprocessableEntity,
			wantType: "https://example.com/problems/validation_failed",
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "id-1", body["error_id"])
				assert.Equal(t, "validation_failed", body["code"])
				assert.Equal(t, "/users", body["instance"])
				assert.Equal(t, map[string]any{
					"user.email": []any{"Invalid email format"},
					"tags[1]":    []any{"Expected string, got int"},
				}, body["errors"])
			},
		},
		{
			name:     "plain error",
			f:        &RFC9457{DisableErrorID: true},
			err:      fmt.Errorf("disk full"),
			status:   http.StatusInternalServerError,
			wantType: "about:blank",
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body, "error_id")
				assert.Equal(t, "disk full", body["detail"])
			},
		},
		{
			name:     "code without base URL",
			f:        &RFC9457{StatusResolver: func(error) int { return http.StatusTooManyRequests }},
			err:      codedError{},
			status:   http.StatusTooManyRequests,
			wantType: "rate_limited",
			check: func(t *testing.T, body map[string]any) {
				_, err := uuid.Parse(body["error_id"].(string))
				assert.NoError(t, err)
			},
		},
		{
			name:     "wrapped status",
			f:        &RFC9457{TypeResolver: func(error) string { return "urn:gone" }},
			err:      WithStatus(fmt.Errorf("moved"), http.StatusGone),
			status:   http.StatusGone,
			wantType: "urn:gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := tt.f.Format(req, tt.err)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, "application/problem+json; charset=utf-8", resp.ContentType)

			body := toJSON(t, resp.Body)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, http.StatusText(tt.status), body["title"])
			assert.InDelta(t, float64(tt.status), body["status"], 0)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestProblemDetail_ReservedExtensions(t *testing.T) {
	t.Parallel()

	body := toJSON(t, ProblemDetail{
		Type:       "about:blank",
		Title:      "Bad Request",
		Status:     400,
		Extensions: map[string]any{"status": 999, "trace": "abc"},
	})
	assert.InDelta(t, 400.0, body["status"], 0)
	assert.Equal(t, "abc", body["trace"])
	assert.NotContains(t, body, "detail")
}

func TestJSONAPI(t *testing.T) {
	t.Parallel()

	t.Run("one object per field message", func(t *testing.T) {
		t.Parallel()
		resp := (&JSONAPI{ErrorIDGenerator: fixedID}).Format(nil, validationError())
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
		assert.Equal(t, "application/vnd.api+json; charset=utf-8", resp.ContentType)

		doc := resp.Body.(jsonAPIDocument)
		require.Len(t, doc.Errors, 2)
		assert.Equal(t, "Expected string, got int", doc.Errors[0].Detail)
		assert.Equal(t, "/data/attributes/tags/1", doc.Errors[0].Source.Pointer)
		assert.Equal(t, "/data/attributes/user/email", doc.Errors[1].Source.Pointer)
		assert.Equal(t, "422", doc.Errors[1].Status)
		assert.Equal(t, "validation_failed", doc.Errors[1].Code)
		assert.Equal(t, "id-1", doc.Errors[1].ID)
	})

	t.Run("unnamed field has no pointer", func(t *testing.T) {
		t.Parallel()
		err := report.NewError(report.New(result.Invalid("", 1, result.KindSystem, "boom")))
		doc := NewJSONAPI().Format(nil, err).Body.(jsonAPIDocument)
		require.Len(t, doc.Errors, 1)
		assert.Nil(t, doc.Errors[0].Source)
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		resp := NewJSONAPI().Format(nil, codedError{})
		doc := resp.Body.(jsonAPIDocument)
		require.Len(t, doc.Errors, 1)
		assert.Equal(t, "rate limited", doc.Errors[0].Detail)
		assert.Equal(t, "rate_limited", doc.Errors[0].Code)
		assert.Equal(t, "500", doc.Errors[0].Status)
		assert.NotEmpty(t, doc.Errors[0].ID)
	})
}

func TestSimple(t *testing.T) {
	t.Parallel()

	resp := NewSimple().Format(nil, validationError())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	body := resp.Body.(map[string]any)
	assert.Contains(t, body["error"], "validation failed: ")
	assert.Equal(t, "validation_failed", body["code"])
	assert.Contains(t, body, "details")

	resp = NewSimple().Format(nil, fmt.Errorf("plain"))
	assert.Equal(t, map[string]any{"error": "plain"}, resp.Body)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
	f := &RFC9457{DisableErrorID: true}

	require.NoError(t, Write(rec, req, f, WithStatus(nil, http.StatusNotFound)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body["detail"])
	assert.Equal(t, "/orders/1", body["instance"])
}
