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
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// toSequence materializes v as a list. Strings become a single element
// unless they contain a comma, in which case they are split and trimmed.
func (c *Coercer) toSequence(v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case string:
		return c.splitString(x), nil
	case []byte:
		return c.splitString(string(x)), nil
	case []any:
		return append([]any(nil), x...), nil
	case Set:
		return append([]any(nil), x...), nil
	case Tuple:
		return append([]any(nil), x...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k.Interface()
		}
		return out, nil
	default:
		return []any{v}, nil
	}
}

func (c *Coercer) splitString(s string) []any {
	if c.strategy == Smart {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "[") {
			var decoded []any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				return decoded
			}
		}
	}
	if !strings.Contains(s, ",") {
		return []any{s}
	}

	parts := strings.Split(s, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}

	return out
}

// dedupe keeps the first occurrence of every item, comparing items by
// their formatted representation.
func dedupe(items []any) Set {
	seen := make(map[string]struct{}, len(items))
	out := make(Set, 0, len(items))
	for _, item := range items {
		key := Identity(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out
}

// Identity returns the string used to compare values for uniqueness: the
// Go type plus its formatted value. 1 and "1" are therefore distinct.
func Identity(v any) string {
	return fmt.Sprintf("%T:%v", v, v)
}

func toDict(v any) (any, error) {
	switch x := v.(type) {
	case string:
		trimmed := strings.TrimSpace(x)
		if strings.HasPrefix(trimmed, "{") {
			var decoded map[string]any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				return decoded, nil
			}
		}
		return map[string]any{"value": v}, nil
	case nil:
		return map[string]any{"value": nil}, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return out, nil
	}

	if indirect := reflect.Indirect(rv); indirect.Kind() == reflect.Struct {
		var out map[string]any
		if err := mapstructure.Decode(v, &out); err == nil && len(out) > 0 {
			return out, nil
		}
	}

	return map[string]any{"value": v}, nil
}
