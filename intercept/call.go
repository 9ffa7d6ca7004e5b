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
	"maps"
	"slices"
)

// Call holds the arguments of an intercepted call.
type Call struct {
	Positional []any
	Named      map[string]any
}

// Args returns a call with positional arguments only.
func Args(positional ...any) Call {
	return Call{Positional: positional}
}

// clone returns a call whose argument containers can be modified without
// affecting c.
func (c Call) clone() Call {
	return Call{
		Positional: slices.Clone(c.Positional),
		Named:      maps.Clone(c.Named),
	}
}

// Func is a function whose calls can be intercepted.
type Func func(ctx context.Context, call Call) (any, error)

// Interceptor wraps a Func.
type Interceptor func(next Func) Func

// Chain composes interceptors. The first one runs outermost.
func Chain(interceptors ...Interceptor) Interceptor {
	return func(next Func) Func {
		for i := len(interceptors) - 1; i >= 0; i-- {
			if interceptors[i] != nil {
				next = interceptors[i](next)
			}
		}
		return next
	}
}

// Wrap applies interceptors to fn.
func Wrap(fn Func, interceptors ...Interceptor) Func {
	return Chain(interceptors...)(fn)
}

// Signature names positional parameters in order.
type Signature []string

// bind maps parameter names to argument values. Named arguments override
// positional ones.
func (s Signature) bind(c Call) map[string]any {
	args := make(map[string]any, len(s)+len(c.Named))
	for i, name := range s {
		if i < len(c.Positional) {
			args[name] = c.Positional[i]
		}
	}
	maps.Copy(args, c.Named)

	return args
}

// set writes v to the argument bound to name.
func (s Signature) set(c *Call, name string, v any) {
	if _, ok := c.Named[name]; ok {
		c.Named[name] = v
		return
	}
	if i := slices.Index(s, name); i >= 0 && i < len(c.Positional) {
		c.Positional[i] = v
	}
}
