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


package intercept

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/guard/coerce"
	guarderrors "rivaas.dev/guard/errors"
	"rivaas.dev/guard/schema"
)

func userSchema() schema.Schema {
	return schema.NewDict("user",
		schema.WithField("age", schema.NewBasic("age", coerce.TargetInt)),
		schema.WithField("name", schema.NewString("name")),
	)
}

// capture records what the wrapped handler saw.
type capture struct {
	called bool
	body   string
	value  any
	found  bool
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		c.called = true
		b, _ := io.ReadAll(req.Body)
		c.body = string(b)
		c.value, c.found = ValidatedBody(req.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		body        string
		chunked     bool
		opts        []Option
		wantStatus  int
		wantCalled  bool
		wantBody    string
		wantType    string
		wantProblem string
	}{
		{
			name:       "coerced body forwarded",
			body:       `{"age":"30","name":"Ada"}`,
			wantStatus: http.StatusNoContent,
			wantCalled: true,
			wantBody:   `{"age":30,"name":"Ada"}`,
		},
		{
			name:        "invalid body rejected",
			body:        `{"age":"x","name":"Ada"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantType:    "application/problem+json; charset=utf-8",
			wantProblem: "validation_failed",
		},
		{
			name:       "malformed json",
			body:       `{"age":`,
			wantStatus: http.StatusBadRequest,
			wantType:   "application/problem+json; charset=utf-8",
		},
		{
			name:       "declared length over limit",
			body:       `{"name":"a very long name indeed"}`,
			opts:       []Option{WithBodyLimit(10)},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "streamed body over limit",
			body:       `{"name":"a very long name indeed"}`,
			chunked:    true,
			opts:       []Option{WithBodyLimit(10)},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "skipped path",
			path:       "/health",
			body:       `not json`,
			opts:       []Option{WithSkipPaths("/health")},
			wantStatus: http.StatusNoContent,
			wantCalled: true,
			wantBody:   `not json`,
		},
		{
			name:       "raise disabled passes original body",
			body:       `{"age":"x"}`,
			opts:       []Option{WithRaise(false)},
			wantStatus: http.StatusNoContent,
			wantCalled: true,
			wantBody:   `{"age":"x"}`,
		},
		{
			name:       "simple formatter",
			body:       `{"age":"x"}`,
			opts:       []Option{WithFormatter(guarderrors.NewSimple())},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "application/json; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := tt.path
			if path == "" {
				path = "/users"
			}
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
			}
			rec := httptest.NewRecorder()
			var c capture

			Middleware(userSchema(), tt.opts...)(c.handler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, c.called)
			if tt.wantCalled {
				assert.Equal(t, tt.wantBody, c.body)
			}
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			}
			if tt.wantProblem != "" {
				var problem map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
				assert.Equal(t, tt.wantProblem, problem["code"])
				assert.Equal(t, path, problem["instance"])
				assert.Contains(t, problem["errors"], bodyField)
			}
		})
	}
}

func TestMiddleware_ValidatedBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"age":"41"}`))
	rec := httptest.NewRecorder()
	var c capture

	Middleware(userSchema())(c.handler()).ServeHTTP(rec, req)

	require.True(t, c.found)
	assert.Equal(t, map[string]any{"age": 41}, c.value)

	_, ok := ValidatedBody(t.Context())
	assert.False(t, ok)
}
