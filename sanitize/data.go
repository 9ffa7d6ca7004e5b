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

package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"rivaas.dev/guard/result"
)

// Data is the generic text sanitizer: valid NFC UTF-8, no control
// characters, single spaces, bounded length.
type Data struct {
	maxLength int
}

// NewData returns a generic sanitizer truncating to maxLength runes.
// Zero or less disables truncation.
func NewData(maxLength int) *Data {
	return &Data{maxLength: maxLength}
}

// Sanitize implements [Sanitizer].
func (d *Data) Sanitize(s string) *result.Result {
	r := result.New("", s)
	out := s

	if normalized := norm.NFC.String(strings.ToValidUTF8(out, "")); normalized != out {
		out = normalized
		r.AddWarning(result.KindSecurity, "Re-normalized text encoding")
	}

	if collapsed := collapse(out); collapsed != out {
		out = collapsed
		r.AddWarning(result.KindSecurity, "Removed control characters and collapsed whitespace")
	}

	if d.maxLength > 0 && utf8.RuneCountInString(out) > d.maxLength {
		out = string([]rune(out)[:d.maxLength])
		r.AddWarningf(result.KindConstraint, "Truncated to %d characters", d.maxLength)
	}
	r.Value = out

	return r
}

// collapse removes control characters and turns whitespace runs into one
// space, trimming both ends.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, c := range s {
		switch {
		case unicode.IsSpace(c):
			space = b.Len() > 0
		case unicode.IsControl(c):
			// dropped
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(c)
		}
	}

	return b.String()
}
