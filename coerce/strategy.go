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
	"strings"
)

// Strategy selects how far a [Coercer] goes to convert a value.
type Strategy uint8

// Coercion strategies.
const (
	// Safe converts when no information is lost.
	Safe Strategy = iota
	// Strict rejects any value whose type differs from the target.
	Strict
	// Permissive additionally truncates floats to integers.
	Permissive
	// Smart behaves like Safe and also decodes JSON array text for
	// sequence targets instead of splitting it on commas.
	Smart
)

var strategyNames = [...]string{
	Safe:       "safe",
	Strict:     "strict",
	Permissive: "permissive",
	Smart:      "smart",
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return int(s) < len(strategyNames)
}

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	if s.Valid() {
		return strategyNames[s]
	}

	return fmt.Sprintf("strategy(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (s *Strategy) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, candidate := range strategyNames {
		if candidate == name {
			*s = Strategy(i)
			return nil
		}
	}

	return fmt.Errorf("unknown coercion strategy %q", text)
}
