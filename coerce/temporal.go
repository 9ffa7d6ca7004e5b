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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// timeLayouts are tried in order when parsing date-time strings.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
}

func toDateTime(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case string:
		return parseDateTime(x)
	case float32:
		return epoch(float64(x))
	case float64:
		return epoch(x)
	case decimal.Decimal:
		return epoch(x.InexactFloat64())
	case bool:
		return nil, fmt.Errorf("booleans are not timestamps")
	}
	if isInteger(v) {
		sec, err := cast.ToInt64E(v)
		if err != nil {
			return nil, err
		}
		return time.Unix(sec, 0).UTC(), nil
	}

	return cast.ToTimeE(v)
}

func parseDateTime(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	// Last resort: a numeric epoch timestamp.
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return epoch(f)
	}

	return time.Time{}, fmt.Errorf("unrecognized date-time %q", s)
}

func epoch(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("%v is not a timestamp", f)
	}
	sec, frac := math.Modf(f)

	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}

func toUUID(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errNil
	case string:
		return uuid.Parse(strings.TrimSpace(x))
	case []byte:
		if len(x) == 16 {
			return uuid.FromBytes(x)
		}
		return uuid.ParseBytes(x)
	case [16]byte:
		return uuid.UUID(x), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}

	return uuid.Parse(s)
}
