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
	"net/http"
	"slices"

	"rivaas.dev/guard/coerce"
)

// ContractError reports the first type mismatch found by
// [ValidateContracts].
type ContractError struct {
	// Name is the parameter or return field that failed.
	Name string
	// Output is true when the mismatch is in the return value.
	Output   bool
	Expected string
	Actual   string
}

func (e *ContractError) Error() string {
	switch {
	case e.Output && e.Name == "":
		return fmt.Sprintf("contract violation: return value expected %s, got %s", e.Expected, e.Actual)
	case e.Output:
		return fmt.Sprintf("contract violation: return field '%s' expected %s, got %s", e.Name, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("contract violation: parameter '%s' expected %s, got %s", e.Name, e.Expected, e.Actual)
	}
}

// HTTPStatus returns 422 Unprocessable Entity.
func (e *ContractError) HTTPStatus() int { return http.StatusUnprocessableEntity }

// Code returns a machine-readable error code.
func (e *ContractError) Code() string { return "contract_violation" }

// ValidateContracts asserts argument and return types without coercion.
// inputs maps parameter names to their expected type; outputs maps fields
// of a dict return value to theirs. Absent parameters and fields are
// skipped. Checks run in name order and stop at the first mismatch.
func ValidateContracts(inputs, outputs map[string]coerce.Target, opts ...Option) Interceptor {
	o := newOptions(opts)
	inNames := slices.Sorted(maps.Keys(inputs))
	outNames := slices.Sorted(maps.Keys(outputs))

	return func(next Func) Func {
		return func(ctx context.Context, call Call) (any, error) {
			args := o.signature.bind(call)
			for _, name := range inNames {
				if v, ok := args[name]; ok && !coerce.Matches(v, inputs[name]) {
					return nil, &ContractError{Name: name, Expected: inputs[name].String(), Actual: coerce.TypeName(v)}
				}
			}

			ret, err := next(ctx, call)
			if err != nil || len(outNames) == 0 {
				return ret, err
			}

			fields, ok := ret.(map[string]any)
			if !ok {
				return nil, &ContractError{Output: true, Expected: coerce.TargetDict.String(), Actual: coerce.TypeName(ret)}
			}
			for _, name := range outNames {
				if v, ok := fields[name]; ok && !coerce.Matches(v, outputs[name]) {
					return nil, &ContractError{Name: name, Output: true, Expected: outputs[name].String(), Actual: coerce.TypeName(v)}
				}
			}

			return ret, nil
		}
	}
}
