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
	"html"
	"regexp"
	"strings"

	"rivaas.dev/guard/result"
)

var (
	scriptBlock   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	dangerousURI  = regexp.MustCompile(`(?i)\b(?:javascript|vbscript|data)\s*:`)
	eventHandler  = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)
	defaultBlocks = []string{
		"script", "iframe", "object", "embed", "applet", "form", "input",
		"button", "link", "meta", "style", "base", "frame", "frameset",
	}
)

// HTML neutralizes markup. In strict mode (the default) every tag is
// removed; otherwise only tags on the blocklist are. The remaining text is
// always entity-escaped.
type HTML struct {
	strict  bool
	blocked *regexp.Regexp
}

// HTMLOption configures an [HTML] sanitizer.
type HTMLOption func(*HTML)

// WithStrictTags removes every tag when enabled and only blocklisted tags
// when disabled.
func WithStrictTags(strict bool) HTMLOption {
	return func(h *HTML) { h.strict = strict }
}

// WithBlockedTags replaces the blocklist used when strict mode is off.
func WithBlockedTags(tags ...string) HTMLOption {
	return func(h *HTML) { h.blocked = blocklist(tags) }
}

// NewHTML returns an HTML sanitizer.
func NewHTML(opts ...HTMLOption) *HTML {
	h := &HTML{strict: true, blocked: blocklist(defaultBlocks)}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

func blocklist(tags []string) *regexp.Regexp {
	quoted := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			quoted = append(quoted, regexp.QuoteMeta(tag))
		}
	}
	if len(quoted) == 0 {
		return nil
	}

	return regexp.MustCompile(`(?i)</?(?:` + strings.Join(quoted, "|") + `)\b[^>]*>`)
}

// Sanitize implements [Sanitizer].
func (h *HTML) Sanitize(s string) *result.Result {
	r := result.New("", s)
	out := s

	step := func(next, warning string) {
		if next != out {
			out = next
			r.AddWarning(result.KindSecurity, warning)
		}
	}

	step(scriptBlock.ReplaceAllString(out, ""), "Removed script tags")
	step(dangerousURI.ReplaceAllString(out, ""), "Removed dangerous URL protocols")
	step(eventHandler.ReplaceAllString(out, ""), "Removed event handler attributes")
	if h.strict {
		step(anyTag.ReplaceAllString(out, ""), "Removed HTML tags")
	} else if h.blocked != nil {
		step(h.blocked.ReplaceAllString(out, ""), "Removed dangerous HTML tags")
	}
	step(html.EscapeString(out), "Escaped HTML entities")

	r.Value = out

	return r
}
