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

package guard

import (
	"reflect"
	"unicode/utf8"

	"rivaas.dev/guard/config"
	"rivaas.dev/guard/result"
)

// checkLimits applies the schema-less limits of cfg to v. A zero limit is
// disabled.
func checkLimits(r *result.Result, v any, cfg config.Config) {
	if str, ok := v.(string); ok {
		if n := utf8.RuneCountInString(str); cfg.MaxStringLength > 0 && n > cfg.MaxStringLength {
			r.AddErrorf(result.KindConstraint, "String length %d exceeds maximum of %d", n, cfg.MaxStringLength)
		}
		return
	}

	rv := reflect.ValueOf(v)
	if k := rv.Kind(); (k == reflect.Slice || k == reflect.Array) && cfg.MaxListLength > 0 && rv.Len() > cfg.MaxListLength {
		r.AddErrorf(result.KindConstraint, "List length %d exceeds maximum of %d", rv.Len(), cfg.MaxListLength)
	}
	if cfg.MaxDictDepth > 0 && dictDepth(rv, cfg.MaxDictDepth) > cfg.MaxDictDepth {
		r.AddErrorf(result.KindConstraint, "Maximum dictionary depth exceeded (%d)", cfg.MaxDictDepth)
	}
}

// dictDepth returns the number of nested map levels in v, where a flat map
// has depth 1. Lists are transparent. Once the depth is known to exceed
// limit the walk stops, so the returned value is at most limit+1.
func dictDepth(v reflect.Value, limit int) int {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if limit < 1 {
			return 1
		}
		deepest := 0
		for it := v.MapRange(); it.Next() && deepest < limit; {
			deepest = max(deepest, dictDepth(it.Value(), limit-1))
		}
		return 1 + deepest
	case reflect.Slice, reflect.Array:
		deepest := 0
		for i := 0; i < v.Len() && deepest <= limit; i++ {
			deepest = max(deepest, dictDepth(v.Index(i), limit))
		}
		return deepest
	default:
		return 0
	}
}
