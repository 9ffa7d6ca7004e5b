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

package contract

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/result"
)

// restFields are keys at least one of which a REST style response is
// expected to carry.
var restFields = []string{"status", "success", "message", "data", "error", "errors"}

// Validate checks data against the contract. The value is never changed.
func (c *Contract) Validate(data any, field string) *result.Result {
	r := result.New(field, data)
	r.SetMeta("contract", c.name)

	switch c.kind {
	case KindDict:
		c.checkDict(r, data)
	case KindList:
		c.checkList(r, data)
	case KindJSONAPI:
		checkJSONAPI(r, data)
	case KindREST:
		if m, ok := data.(map[string]any); ok && !slices.ContainsFunc(restFields, func(k string) bool { _, ok := m[k]; return ok }) {
			r.AddWarningf(result.KindStructural, "Response has none of the common fields: %s", strings.Join(restFields, ", "))
		}
		c.checkDict(r, data)
	case KindModel:
		c.checkModel(r, data)
	case KindScalar:
		c.checkScalar(r, data)
	case KindCustom:
		c.checkPredicates(r, data)
	}

	return r
}

func (c *Contract) checkDict(r *result.Result, data any) {
	m, ok := data.(map[string]any)
	if !ok {
		r.AddErrorf(result.KindStructural, "Expected dict, got %s", coerce.TypeName(data))
		return
	}

	for _, name := range c.required {
		if _, ok := m[name]; !ok {
			r.AddErrorf(result.KindStructural, "Missing required field '%s'", name)
		}
	}
	if c.strict {
		for _, name := range c.typedFields() {
			v, ok := m[name]
			if !ok || v == nil {
				continue
			}
			if want := c.fieldTypes[name]; !coerce.Matches(v, want) {
				r.AddErrorf(result.KindStructural, "Field '%s' expected %s, got %s", name, want, coerce.TypeName(v))
			}
		}
	}
	if c.allowExtra {
		return
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if !c.known(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		r.AddErrorf(result.KindStructural, "Unexpected field '%s'", k)
	}
}

func (c *Contract) checkList(r *result.Result, data any) {
	rv := reflect.ValueOf(data)
	if data == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		r.AddErrorf(result.KindStructural, "Expected list, got %s", coerce.TypeName(data))
		return
	}

	n := rv.Len()
	if n < c.minLength {
		r.AddErrorf(result.KindConstraint, "List must contain at least %d items", c.minLength)
	}
	if c.maxLength > 0 && n > c.maxLength {
		r.AddErrorf(result.KindConstraint, "List must contain at most %d items", c.maxLength)
	}
}

func checkJSONAPI(r *result.Result, data any) {
	m, ok := data.(map[string]any)
	if !ok {
		r.AddErrorf(result.KindStructural, "Expected dict, got %s", coerce.TypeName(data))
		return
	}

	d, hasData := m["data"]
	_, hasErrors := m["errors"]
	if !hasData && !hasErrors {
		r.AddError(result.KindStructural, "JSON:API document must contain 'data' or 'errors'")
	}
	if hasData {
		switch d.(type) {
		case nil, map[string]any, []any:
		default:
			r.AddErrorf(result.KindStructural, "'data' must be an object, an array or null, got %s", coerce.TypeName(d))
		}
	}
	if meta, ok := m["meta"]; ok {
		if _, ok := meta.(map[string]any); !ok {
			r.AddErrorf(result.KindStructural, "'meta' must be an object, got %s", coerce.TypeName(meta))
		}
	}
	if errs, ok := m["errors"]; ok {
		if _, ok := errs.([]any); !ok {
			r.AddErrorf(result.KindStructural, "'errors' must be an array, got %s", coerce.TypeName(errs))
		}
	}
}

func (c *Contract) checkModel(r *result.Result, data any) {
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		r.AddErrorf(result.KindStructural, "Expected model, got %s", coerce.TypeName(data))
		return
	}

	for _, name := range c.required {
		if _, ok := attribute(rv, name); !ok {
			r.AddErrorf(result.KindStructural, "Missing required attribute '%s'", name)
		}
	}
	if !c.strict {
		return
	}
	for _, name := range c.typedFields() {
		fv, ok := attribute(rv, name)
		if !ok {
			continue
		}
		if want := c.fieldTypes[name]; !coerce.Matches(fv, want) {
			r.AddErrorf(result.KindStructural, "Attribute '%s' expected %s, got %s", name, want, coerce.TypeName(fv))
		}
	}
}

// attribute looks up an exported struct field by Go name or json tag.
func attribute(rv reflect.Value, name string) (any, bool) {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if sf.Name == name || tag == name {
			return rv.Field(i).Interface(), true
		}
	}

	return nil, false
}

func (c *Contract) checkScalar(r *result.Result, data any) {
	if c.valueType != coerce.TargetAny && !coerce.Matches(data, c.valueType) {
		r.AddErrorf(result.KindStructural, "Expected %s, got %s", c.valueType, coerce.TypeName(data))
		return
	}

	s, ok := data.(string)
	if !ok {
		return
	}
	n := utf8.RuneCountInString(s)
	if n < c.minLength {
		r.AddErrorf(result.KindConstraint, "String is too short (minimum %d characters)", c.minLength)
	}
	if c.maxLength > 0 && n > c.maxLength {
		r.AddErrorf(result.KindConstraint, "String is too long (maximum %d characters)", c.maxLength)
	}
}

func (c *Contract) checkPredicates(r *result.Result, data any) {
	for _, p := range c.predicates {
		ok, err := run(p, data)
		switch {
		case err != nil:
			r.AddErrorf(result.KindSystem, "Custom validation error in '%s': %v", p.Name, err)
		case !ok:
			r.AddErrorf(result.KindConstraint, "Custom validation failed: %s", p.Name)
		}
	}
}

func run(p Predicate, data any) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()

	return p.Check(data), nil
}
