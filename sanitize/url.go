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
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"rivaas.dev/guard/result"
)

var unsafeScheme = regexp.MustCompile(`(?i)^(javascript|vbscript|data|file):`)

// urlSafe lists the reserved characters kept verbatim when percent-encoding.
// '%' is included so existing escapes are not encoded twice.
const urlSafe = ":/?#[]@!$&'()*+,;=%"

// URL rejects dangerous schemes and percent-encodes everything else. Query
// values are passed through an [HTML] sanitizer.
type URL struct {
	html *HTML
}

// NewURL returns a URL sanitizer that cleans query values with h. A nil h
// uses NewHTML().
func NewURL(h *HTML) *URL {
	if h == nil {
		h = NewHTML()
	}

	return &URL{html: h}
}

// Sanitize implements [Sanitizer]. A javascript:, vbscript:, data: or
// file: URL is an error and the value is returned unchanged.
func (u *URL) Sanitize(s string) *result.Result {
	r := result.New("", s)

	trimmed := strings.TrimSpace(s)
	if m := unsafeScheme.FindStringSubmatch(stripInvisible(trimmed)); m != nil {
		r.AddErrorf(result.KindSecurity, "Dangerous URL scheme: %s", strings.ToLower(m[1]))
		return r
	}

	rest, fragment, hasFragment := strings.Cut(trimmed, "#")
	base, query, hasQuery := strings.Cut(rest, "?")

	out := percentEncode(base)
	if out != base {
		r.AddWarning(result.KindSecurity, "Percent-encoded unsafe URL characters")
	}
	if hasQuery {
		out += "?" + u.sanitizeQuery(query, r)
	}
	if hasFragment {
		out += "#" + percentEncode(fragment)
	}
	r.Value = out

	return r
}

func (u *URL) sanitizeQuery(query string, r *result.Result) string {
	pairs := strings.Split(query, "&")
	for i, pair := range pairs {
		key, value, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			pairs[i] = percentEncode(pair)
			continue
		}

		decoded, err := url.QueryUnescape(value)
		if err != nil {
			decoded = value
		}
		cleaned := u.html.Sanitize(decoded)
		if cleaned.Value == decoded {
			pairs[i] = percentEncode(key) + "=" + percentEncode(value)
			continue
		}
		name, err := url.QueryUnescape(key)
		if err != nil {
			name = key
		}
		r.Merge(cleaned, fmt.Sprintf("Query parameter '%s': ", name))
		pairs[i] = percentEncode(key) + "=" + url.QueryEscape(cleaned.Value.(string))
	}

	return strings.Join(pairs, "&")
}

func percentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(urlSafe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// stripInvisible drops ASCII whitespace and control characters, which
// browsers ignore inside a scheme name.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
