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
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var errNil = errors.New("value is nil")

// boolWord maps the accepted boolean vocabulary, lower-cased, to its value.
var boolWord = map[string]bool{
	"true": true, "1": true, "yes": true, "on": true, "t": true, "y": true,
	"false": false, "0": false, "no": false, "off": false, "f": false, "n": false, "": false,
}

// numericBoolWord is the subset of boolWord accepted where a number is expected.
var numericBoolWord = map[string]int{
	"true": 1, "yes": 1, "on": 1,
	"false": 0, "no": 0, "off": 0,
}

func (c *Coercer) toInt(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float32:
		return c.floatToInt(float64(x))
	case float64:
		return c.floatToInt(x)
	case decimal.Decimal:
		if !x.Equal(x.Truncate(0)) {
			return nil, fmt.Errorf("decimal %s has a fractional part", x)
		}
		if x.LessThan(minIntDecimal) || x.GreaterThan(maxIntDecimal) {
			return nil, fmt.Errorf("decimal %s overflows int", x)
		}
		return int(x.IntPart()), nil
	case string:
		return parseInt(x)
	case json.Number:
		return parseInt(x.String())
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, err
	}

	return int(n), nil
}

func (c *Coercer) floatToInt(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v has no integer value", f)
	}
	if f != math.Trunc(f) && c.strategy != Permissive {
		return nil, fmt.Errorf("%v is not an integer", f)
	}

	return truncInt(f)
}

var (
	minIntDecimal = decimal.NewFromInt(math.MinInt)
	maxIntDecimal = decimal.NewFromInt(math.MaxInt)
)

// truncInt truncates f toward zero, rejecting values outside the int range.
// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
func truncInt(f float64) (any, error) {
	t := math.Trunc(f)
	if t < float64(math.MinInt) || t >= float64(math.MaxInt) {
		return nil, fmt.Errorf("%v overflows int", f)
	}

	return int(t), nil
}

func parseInt(s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	if n, ok := numericBoolWord[strings.ToLower(trimmed)]; ok {
		return n, nil
	}

	digits := strings.ReplaceAll(trimmed, ",", "")
	n, err := strconv.ParseInt(digits, 10, strconv.IntSize)
	if err == nil {
		return int(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("integer literal %q overflows int", s)
	}

	f, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("invalid integer literal %q", s)
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%q is not an integral number", s)
	}

	return truncInt(f)
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case decimal.Decimal:
		return x.InexactFloat64(), nil
	case string:
		return parseFloat(x)
	case json.Number:
		return parseFloat(x.String())
	}

	return cast.ToFloat64E(v)
}

func parseFloat(s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	if n, ok := numericBoolWord[strings.ToLower(trimmed)]; ok {
		return float64(n), nil
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number literal %q", s)
	}

	return f, nil
}

func toBool(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case string:
		word := strings.ToLower(strings.TrimSpace(x))
		if b, ok := boolWord[word]; ok {
			return b, nil
		}
		if f, err := strconv.ParseFloat(word, 64); err == nil {
			return f != 0, nil
		}
		return nil, fmt.Errorf("cannot interpret %q as a boolean", x)
	case decimal.Decimal:
		return !x.IsZero(), nil
	case float32:
		return x != 0, nil
	case float64:
		return x != 0, nil
	}
	if isInteger(v) {
		n, err := cast.ToInt64E(v)
		if err != nil {
			// uint64 above MaxInt64 is still non-zero.
			return true, nil //nolint:nilerr // overflow implies a non-zero value
		}
		return n != 0, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0, nil
	default:
		return nil, fmt.Errorf("no truth value for %T", v)
	}
}

func toString(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case []any, map[string]any, Set, Tuple:
		data, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s, nil
	}

	return fmt.Sprint(v), nil
}

func toDecimal(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case bool:
		if x {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case float32:
		return floatToDecimal(float64(x))
	case float64:
		return floatToDecimal(x)
	case string:
		return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(x), ",", ""))
	}
	if isInteger(v) {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return decimal.NewFromString(s)
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}

	return decimal.NewFromString(strings.TrimSpace(s))
}

func floatToDecimal(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v cannot be represented as a decimal", f)
	}

	return decimal.NewFromFloat(f), nil
}
