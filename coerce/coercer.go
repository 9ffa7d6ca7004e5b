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

package coerce

import (
	"fmt"

	"rivaas.dev/guard/result"
)

// Coercer converts values under a fixed [Strategy]. It holds no mutable
// state and is safe for concurrent use.
type Coercer struct {
	strategy Strategy
}

// New returns a coercer using strategy. Unknown strategies fall back to [Safe].
func New(strategy Strategy) *Coercer {
	if !strategy.Valid() {
		strategy = Safe
	}

	return &Coercer{strategy: strategy}
}

// Strategy returns the strategy c was created with.
func (c *Coercer) Strategy() Strategy {
	return c.strategy
}

// Coerce converts value to target.
//
// The returned result is valid with an unchanged value and no warnings
// when value already matches target. A successful conversion stores the
// converted value and adds exactly one warning. Any failure, including a
// panic inside conversion, adds exactly one error and keeps the original
// value.
func (c *Coercer) Coerce(value any, target Target) (r *result.Result) {
	r = result.New("", value)
	if Matches(value, target) {
		return r
	}

	if c.strategy == Strict {
		r.AddErrorf(result.KindCoercion, "Cannot coerce %s to %s in strict mode", TypeName(value), target)
		return r
	}

	defer func() {
		if rec := recover(); rec != nil {
			r = result.New("", value)
			r.AddErrorf(result.KindCoercion, "Cannot coerce %s to %s: %v", TypeName(value), target, rec)
		}
	}()

	converted, err := c.convert(value, target)
	if err != nil {
		r.AddErrorf(result.KindCoercion, "Cannot coerce %s to %s: %v", TypeName(value), target, err)
		return r
	}

	r.Value = converted
	r.AddWarningf(result.KindCoercion, "Coerced %s to %s", TypeName(value), target)

	return r
}

func (c *Coercer) convert(value any, target Target) (any, error) {
	switch target {
	case TargetAny:
		return value, nil
	case TargetInt:
		return c.toInt(value)
	case TargetFloat:
		return toFloat(value)
	case TargetBool:
		return toBool(value)
	case TargetString:
		return toString(value)
	case TargetList:
		return c.toSequence(value)
	case TargetSet:
		items, err := c.toSequence(value)
		if err != nil {
			return nil, err
		}
		return dedupe(items), nil
	case TargetTuple:
		items, err := c.toSequence(value)
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case TargetDict:
		return toDict(value)
	case TargetDecimal:
		return toDecimal(value)
	case TargetDateTime:
		return toDateTime(value)
	case TargetUUID:
		return toUUID(value)
	}

	return nil, fmt.Errorf("unsupported target %s", target)
}
