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
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Target is a type a value can be coerced to.
type Target uint8

// Coercion targets. TargetAny accepts every value as is.
const (
	TargetAny Target = iota
	TargetInt
	TargetFloat
	TargetBool
	TargetString
	TargetList
	TargetSet
	TargetTuple
	TargetDict
	TargetDecimal
	TargetDateTime
	TargetUUID
)

var targetNames = [...]string{
	TargetAny:      "any",
	TargetInt:      "int",
	TargetFloat:    "float",
	TargetBool:     "bool",
	TargetString:   "string",
	TargetList:     "list",
	TargetSet:      "set",
	TargetTuple:    "tuple",
	TargetDict:     "dict",
	TargetDecimal:  "decimal",
	TargetDateTime: "datetime",
	TargetUUID:     "uuid",
}

// String returns the target name used in messages.
func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}

	return fmt.Sprintf("target(%d)", t)
}

// ParseTarget returns the target with the given name.
func ParseTarget(name string) (Target, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range targetNames {
		if candidate == name {
			return Target(i), nil
		}
	}

	return TargetAny, fmt.Errorf("unknown coercion target %q", name)
}

// Set is an ordered collection without duplicates, as produced for
// [TargetSet].
type Set []any

// Tuple is a fixed sequence, as produced for [TargetTuple].
type Tuple []any

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
)

// Matches reports whether v already has the Go type that t produces.
// Every Go integer type matches [TargetInt].
func Matches(v any, t Target) bool {
	switch t {
	case TargetAny:
		return true
	case TargetInt:
		return isInteger(v)
	case TargetFloat:
		switch v.(type) {
		case float32, float64:
			return true
		}
	case TargetBool:
		_, ok := v.(bool)
		return ok
	case TargetString:
		_, ok := v.(string)
		return ok
	case TargetList:
		_, ok := v.([]any)
		return ok
	case TargetSet:
		_, ok := v.(Set)
		return ok
	case TargetTuple:
		_, ok := v.(Tuple)
		return ok
	case TargetDict:
		_, ok := v.(map[string]any)
		return ok
	case TargetDecimal:
		_, ok := v.(decimal.Decimal)
		return ok
	case TargetDateTime:
		_, ok := v.(time.Time)
		return ok
	case TargetUUID:
		_, ok := v.(uuid.UUID)
		return ok
	}

	return false
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}

	return false
}

// TypeName returns the short name of v's type used in messages, for
// example "string", "int", "list" or "dict".
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case string:
		return "string"
	case float32, float64:
		return "float"
	case []any:
		return "list"
	case Set:
		return "set"
	case Tuple:
		return "tuple"
	case map[string]any:
		return "dict"
	}
	if isInteger(v) {
		return "int"
	}

	rt := reflect.TypeOf(v)
	switch rt {
	case timeType:
		return "datetime"
	case decimalType:
		return "decimal"
	case uuidType:
		return "uuid"
	}
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "dict"
	default:
		return rt.String()
	}
}
