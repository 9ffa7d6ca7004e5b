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
	"regexp"
	"strings"

	"rivaas.dev/guard/result"
)

type signature struct {
	name    string
	pattern *regexp.Regexp
}

var (
	sqlLineComment  = regexp.MustCompile(`--[^\r\n]*`)
	sqlBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	sqlComparison   = regexp.MustCompile(`(['"]?)(\w+)(['"]?)\s*=\s*(['"]?)(\w+)(['"]?)`)

	sqlSignatures = []signature{
		{"union select", regexp.MustCompile(`(?i)\bunion\s+(?:all\s+)?select\b`)},
		{"stacked query", regexp.MustCompile(`(?i);\s*(?:drop|delete|insert|update|alter|create|truncate|exec)\b`)},
		{"schema change", regexp.MustCompile(`(?i)\b(?:drop|alter|truncate)\s+(?:table|database)\b`)},
		{"data change", regexp.MustCompile(`(?i)\b(?:insert\s+into|delete\s+from|update\s+\w+\s+set)\b`)},
		{"select from", regexp.MustCompile(`(?i)\bselect\b.+\bfrom\b`)},
		{"procedure call", regexp.MustCompile(`(?i)\b(?:exec|execute)\s*\(|\bxp_\w+`)},
		{"time delay", regexp.MustCompile(`(?i)\b(?:sleep\s*\(|benchmark\s*\(|waitfor\s+delay)`)},
		{"or condition", regexp.MustCompile(`(?i)['"\s]or\s+['"]?\w+['"]?\s*=`)},
		{"quote character", regexp.MustCompile(`['"]`)},
	}
)

// SQL strips comment syntax, reports injection signatures as warnings and
// doubles single quotes. It never rejects input.
type SQL struct{}

// NewSQL returns a SQL sanitizer.
func NewSQL() *SQL {
	return &SQL{}
}

// Sanitize implements [Sanitizer].
func (*SQL) Sanitize(s string) *result.Result {
	r := result.New("", s)

	out := sqlBlockComment.ReplaceAllString(s, "")
	out = sqlLineComment.ReplaceAllString(out, "")
	if out != s {
		r.AddWarning(result.KindSecurity, "Removed SQL comments")
	}

	for _, sig := range sqlSignatures {
		if sig.pattern.MatchString(out) {
			r.AddWarningf(result.KindSecurity, "Potential SQL injection pattern: %s", sig.name)
		}
	}
	if hasTautology(out) {
		r.AddWarning(result.KindSecurity, "Potential SQL injection pattern: always-true comparison")
	}

	if strings.Contains(out, "'") {
		out = strings.ReplaceAll(out, "'", "''")
		r.AddWarning(result.KindSecurity, "Escaped single quotes")
	}
	r.Value = out

	return r
}

// hasTautology finds comparisons whose sides are the same literal, such as
// 1=1 or 'a'='a'.
func hasTautology(s string) bool {
	for _, m := range sqlComparison.FindAllStringSubmatch(s, -1) {
		if strings.EqualFold(m[2], m[5]) && m[1] == m[3] && m[4] == m[6] {
			return true
		}
	}

	return false
}
