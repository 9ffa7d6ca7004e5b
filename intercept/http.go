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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"rivaas.dev/guard"
	guarderrors "rivaas.dev/guard/errors"
	"rivaas.dev/guard/report"
	"rivaas.dev/guard/schema"
)

// DefaultBodyLimit caps request bodies read by [Middleware].
const DefaultBodyLimit int64 = 1 << 20

const bodyField = "body"

type bodyKey struct{}

type validatedBody struct{ value any }

// Middleware validates JSON request bodies against s before calling the
// next handler. Failures are written with the configured formatter
// (RFC 9457 problem details by default): 413 for oversized bodies, 400 for
// malformed JSON and 422 for validation failures. On success the body is
// replaced by the JSON encoding of the validated value, which is also
// available from [ValidatedBody].
func Middleware(s schema.Schema, opts ...Option) func(http.Handler) http.Handler {
	o := newOptions(opts)
	formatter := o.formatter
	if formatter == nil {
		formatter = guarderrors.NewRFC9457("")
	}
	limit := o.bodyLimit
	if limit <= 0 {
		limit = DefaultBodyLimit
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if o.skipPaths[req.URL.Path] {
				next.ServeHTTP(w, req)
				return
			}

			raw, err := readBody(req, limit)
			if err != nil {
				_ = guarderrors.Write(w, req, formatter, err)
				return
			}

			var data any
			if len(bytes.TrimSpace(raw)) > 0 {
				if err := json.Unmarshal(raw, &data); err != nil {
					_ = guarderrors.Write(w, req, formatter,
						guarderrors.WithStatus(fmt.Errorf("malformed JSON body: %w", err), http.StatusBadRequest))
					return
				}
			}

			r := o.svc.Validate(req.Context(), data, o.callOpts(guard.WithSchema(s), guard.WithField(bodyField))...)
			if !r.Valid {
				if o.raise {
					_ = guarderrors.Write(w, req, formatter, report.NewError(report.New(r)))
					return
				}
				req.Body = io.NopCloser(bytes.NewReader(raw))
				next.ServeHTTP(w, req)
				return
			}

			body, err := json.Marshal(r.Value)
			if err != nil {
				body = raw
			}
			req = req.WithContext(context.WithValue(req.Context(), bodyKey{}, validatedBody{r.Value}))
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
			req.Header.Set("Content-Length", strconv.Itoa(len(body)))
			next.ServeHTTP(w, req)
		})
	}
}

// ValidatedBody returns the value [Middleware] validated for this request.
func ValidatedBody(ctx context.Context) (any, bool) {
	vb, ok := ctx.Value(bodyKey{}).(validatedBody)

	return vb.value, ok
}

// readBody reads at most limit bytes. The declared Content-Length is
// checked first; the actual read is bounded either way.
func readBody(req *http.Request, limit int64) ([]byte, error) {
	tooLarge := guarderrors.WithStatus(
		fmt.Errorf("request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
	if req.ContentLength > limit {
		return nil, tooLarge
	}
	if req.Body == nil {
		return nil, nil
	}
	defer req.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(req.Body, limit+1))
	if err != nil {
		return nil, guarderrors.WithStatus(fmt.Errorf("read request body: %w", err), http.StatusBadRequest)
	}
	if int64(len(raw)) > limit {
		return nil, tooLarge
	}

	return raw, nil
}
