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
	"context"
	"fmt"
	"maps"
	"slices"

	"rivaas.dev/guard"
	"rivaas.dev/guard/config"
	"rivaas.dev/guard/report"
	"rivaas.dev/guard/result"
	"rivaas.dev/guard/schema"
)

const returnField = "return"

// ValidateInput validates named parameters against schemas. Parameters
// that were not passed are skipped. Valid, possibly coerced, values replace
// the original arguments before the call.
func ValidateInput(schemas map[string]schema.Schema, opts ...Option) Interceptor {
	o := newOptions(opts)
	names := slices.Sorted(maps.Keys(schemas))

	return func(next Func) Func {
		return func(ctx context.Context, call Call) (any, error) {
			args := o.signature.bind(call)
			out := call.clone()

			results := make([]*result.Result, 0, len(names))
			for _, name := range names {
				v, ok := args[name]
				if !ok {
					continue
				}
				r := o.svc.Validate(ctx, v, o.callOpts(guard.WithSchema(schemas[name]), guard.WithField(name))...)
				results = append(results, r)
				if r.Valid {
					o.signature.set(&out, name, r.Value)
				}
			}

			if rep := report.New(results...); !rep.Valid() && o.raise {
				return nil, report.NewError(rep)
			}

			return next(ctx, out)
		}
	}
}

// ValidateArg validates the first argument against s. Arguments are passed
// on unchanged. The first argument is the first positional one, or the
// named argument for the first signature entry.
func ValidateArg(s schema.Schema, opts ...Option) Interceptor {
	o := newOptions(opts)

	return func(next Func) Func {
		return func(ctx context.Context, call Call) (any, error) {
			v, name, ok := firstArg(o.signature, call)
			if ok {
				r := o.svc.Validate(ctx, v, o.callOpts(guard.WithSchema(s), guard.WithField(name))...)
				if !r.Valid && o.raise {
					return nil, report.NewError(report.New(r))
				}
			}

			return next(ctx, call)
		}
	}
}

func firstArg(sig Signature, call Call) (v any, name string, ok bool) {
	if len(sig) > 0 {
		name = sig[0]
		if v, ok = call.Named[name]; ok {
			return v, name, true
		}
	}
	if len(call.Positional) > 0 {
		if name == "" {
			name = "arg_0"
		}
		return call.Positional[0], name, true
	}

	return nil, name, false
}

// ValidateOutput validates the return value against s. On success the
// validated value is returned in place of the original.
func ValidateOutput(s schema.Schema, opts ...Option) Interceptor {
	o := newOptions(opts)

	return func(next Func) Func {
		return func(ctx context.Context, call Call) (any, error) {
			ret, err := next(ctx, call)
			if err != nil {
				return ret, err
			}

			r := o.svc.Validate(ctx, ret, o.callOpts(guard.WithSchema(s), guard.WithField(returnField))...)
			if !r.Valid {
				if o.raise {
					return nil, report.NewError(report.New(r))
				}
				return ret, nil
			}

			return r.Value, nil
		}
	}
}

// SanitizeInput runs the named parameters, or every string argument when
// no names are given, through the schema-less validation path with HTML
// and SQL sanitization enabled. Sanitized values replace the arguments.
// Sanitization never fails the call.
func SanitizeInput(names []string, opts ...Option) Interceptor {
	o := newOptions(opts)
	base := o.svc.Config()
	if o.cfg != nil {
		base = *o.cfg
	}
	cfg := base.With(
		config.WithSanitization(true),
		config.WithXSSProtection(true),
		config.WithSQLInjectionProtection(true),
	)

	clean := func(ctx context.Context, name string, v any) (any, bool) {
		if _, ok := v.(string); !ok && len(names) == 0 {
			return v, false
		}
		r := o.svc.Validate(ctx, v, guard.WithConfig(cfg), guard.WithField(name))
		if rejected(r) {
			return v, false
		}
		// Limit violations still leave the sanitized value in r.Value.
		return r.Value, true
	}

	return func(next Func) Func {
		return func(ctx context.Context, call Call) (any, error) {
			out := call.clone()

			if len(names) > 0 {
				args := o.signature.bind(call)
				for _, name := range names {
					if v, ok := args[name]; ok {
						if nv, changed := clean(ctx, name, v); changed {
							o.signature.set(&out, name, nv)
						}
					}
				}
				return next(ctx, out)
			}

			for i, v := range out.Positional {
				if nv, changed := clean(ctx, fmt.Sprintf("arg_%d", i), v); changed {
					out.Positional[i] = nv
				}
			}
			for name, v := range out.Named {
				if nv, changed := clean(ctx, name, v); changed {
					out.Named[name] = nv
				}
			}

			return next(ctx, out)
		}
	}
}

// rejected reports whether a sanitizer refused the value outright.
func rejected(r *result.Result) bool {
	for _, issue := range r.Errors {
		if issue.Kind == result.KindSecurity || issue.Kind == result.KindSystem {
			return true
		}
	}

	return false
}
