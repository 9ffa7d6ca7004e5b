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
	"rivaas.dev/guard"
	"rivaas.dev/guard/config"
	guarderrors "rivaas.dev/guard/errors"
)

// Option configures an interceptor.
type Option func(*options)

type options struct {
	svc       *guard.Service
	signature Signature
	raise     bool
	cfg       *config.Config

	formatter guarderrors.Formatter
	bodyLimit int64
	skipPaths map[string]bool
}

func newOptions(opts []Option) *options {
	o := &options{raise: true}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.svc == nil {
		o.svc = guard.MustNew()
	}

	return o
}

// WithService validates through svc, sharing its registry, counters and
// logger. By default each interceptor owns a service.
func WithService(svc *guard.Service) Option {
	return func(o *options) { o.svc = svc }
}

// WithSignature names the positional parameters of the wrapped call.
func WithSignature(names ...string) Option {
	return func(o *options) { o.signature = Signature(names) }
}

// WithRaise controls whether failed validation returns an error. It is on
// by default; when off, failures are ignored and the call proceeds.
func WithRaise(enabled bool) Option {
	return func(o *options) { o.raise = enabled }
}

// WithConfig overrides the service configuration.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithFormatter renders [Middleware] failures with f.
func WithFormatter(f guarderrors.Formatter) Option {
	return func(o *options) { o.formatter = f }
}

// WithBodyLimit caps the request body [Middleware] reads, in bytes.
func WithBodyLimit(n int64) Option {
	return func(o *options) { o.bodyLimit = n }
}

// WithSkipPaths lets requests for these exact paths through [Middleware]
// unvalidated.
func WithSkipPaths(paths ...string) Option {
	return func(o *options) {
		if o.skipPaths == nil {
			o.skipPaths = make(map[string]bool, len(paths))
		}
		for _, p := range paths {
			o.skipPaths[p] = true
		}
	}
}

func (o *options) callOpts(extra ...guard.CallOption) []guard.CallOption {
	if o.cfg != nil {
		extra = append(extra, guard.WithConfig(*o.cfg))
	}

	return extra
}
