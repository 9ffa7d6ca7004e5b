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
	"path"
	"regexp"
	"strings"

	"rivaas.dev/guard/result"
)

// sensitiveRoot matches well-known system directories at the start of a path.
var sensitiveRoot = regexp.MustCompile(`(?i)^/*(?:etc|proc|sys|dev|root|boot|var/log|windows/system32|windows)(?:/|$)`)

// Path removes traversal markers from a relative path and keeps the result
// inside its base directory.
type Path struct{}

// NewPath returns a path sanitizer.
func NewPath() *Path {
	return &Path{}
}

// Sanitize implements [Sanitizer]. The result never contains "..".
func (*Path) Sanitize(s string) *result.Result {
	r := result.New("", s)
	out := s
	warned := make(map[string]bool)

	strip := func(next, warning string) bool {
		if next == out {
			return false
		}
		out = next
		if !warned[warning] {
			warned[warning] = true
			r.AddWarning(result.KindSecurity, warning)
		}

		return true
	}

	// Removing one marker can join the pieces of another, so repeat until
	// nothing changes.
	for changed := true; changed; {
		changed = false
		changed = strip(strings.ReplaceAll(out, "\x00", ""), "Removed null bytes") || changed
		changed = strip(strings.ReplaceAll(out, `\`, "/"), "Normalized backslashes") || changed
		changed = strip(strings.ReplaceAll(out, "..", ""), "Removed parent directory references") || changed
		changed = strip(strings.ReplaceAll(out, "~/", ""), "Removed home directory references") || changed
		changed = strip(sensitiveRoot.ReplaceAllString(out, ""), "Removed sensitive system path prefix") || changed
	}

	if out != "" {
		cleaned := path.Clean(out)
		if path.IsAbs(cleaned) {
			// Absolute paths would leave the base directory.
			base := path.Base(cleaned)
			if base == "/" {
				base = ""
			}
			out = base
			r.AddWarning(result.KindSecurity, "Path escaped the base directory; reduced to file name")
		} else if cleaned != out {
			out = cleaned
			r.AddWarning(result.KindSecurity, "Normalized path")
		}
	}
	r.Value = out

	return r
}
