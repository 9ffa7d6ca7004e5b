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

// Package intercept validates the arguments and return values of calls.
//
// Go has no runtime parameter names, so a wrapped function receives its
// arguments as a [Call] and callers describe parameter order with
// [WithSignature]. Interceptors compose with [Chain]:
//
//	setAge := intercept.Chain(
//	    intercept.ValidateInput(map[string]schema.Schema{
//	        "age": schema.NewBasic("age", coerce.TargetInt),
//	    }, intercept.WithSignature("age")),
//	)(func(ctx context.Context, c intercept.Call) (any, error) {
//	    return c.Positional[0], nil
//	})
//
//	v, err := setAge(ctx, intercept.Args("30")) // v == 30, err == nil
//
// Schema-based interceptors collect every failure into a *report.Error.
// [ValidateContracts] stops at the first mismatch and returns a
// *[ContractError].
//
// # HTTP
//
// [Middleware] applies a schema to JSON request bodies:
//
//	mux.Handle("/users", intercept.Middleware(user,
//	    intercept.WithBodyLimit(64<<10),
//	    intercept.WithFormatter(errors.NewJSONAPI()),
//	)(createUser))
//
// Handlers read the coerced body from the request or from [ValidatedBody].
package intercept
