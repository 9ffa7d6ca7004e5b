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
	"sort"
	"strings"

	"rivaas.dev/guard/config"
	"rivaas.dev/guard/result"
)

// Sanitizer cleans a single string.
type Sanitizer interface {
	Sanitize(s string) *result.Result
}

// Mode selects which sanitizers [InputSanitizer.Sanitize] runs.
type Mode uint8

// Sanitization modes.
const (
	// ModeAuto runs every sanitizer enabled in the configuration, in the
	// order HTML, SQL, Path.
	ModeAuto Mode = iota
	ModeHTML
	ModeSQL
	ModePath
	ModeURL
	ModeData
)

var modeNames = [...]string{
	ModeAuto: "auto",
	ModeHTML: "html",
	ModeSQL:  "sql",
	ModePath: "path",
	ModeURL:  "url",
	ModeData: "data",
}

// String returns the mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}

	return fmt.Sprintf("mode(%d)", m)
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range modeNames {
		if candidate == name {
			return Mode(i), nil
		}
	}

	return ModeAuto, fmt.Errorf("unknown sanitization mode %q", name)
}

// InputSanitizer applies the individual sanitizers to arbitrary values.
// Strings are sanitized directly; lists and string-keyed maps are walked
// recursively and every other value is returned untouched.
//
// An InputSanitizer is immutable and safe for concurrent use.
type InputSanitizer struct {
	cfg  config.Config
	html *HTML
	sql  *SQL
	path *Path
	url  *URL
	data *Data
}

// Option configures an [InputSanitizer].
type Option func(*InputSanitizer)

// WithHTML replaces the HTML sanitizer, also used for URL query values.
func WithHTML(h *HTML) Option {
	return func(s *InputSanitizer) {
		if h != nil {
			s.html = h
		}
	}
}

// WithData replaces the generic data sanitizer.
func WithData(d *Data) Option {
	return func(s *InputSanitizer) {
		if d != nil {
			s.data = d
		}
	}
}

// New returns an input sanitizer driven by cfg. The generic data
// sanitizer truncates to cfg.MaxStringLength.
func New(cfg config.Config, opts ...Option) *InputSanitizer {
	s := &InputSanitizer{
		cfg:  cfg,
		html: NewHTML(),
		sql:  NewSQL(),
		path: NewPath(),
		data: NewData(cfg.MaxStringLength),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.url = NewURL(s.html)

	return s
}

// Sanitize cleans value according to mode. It never panics; a failure
// inside a sanitizer becomes an error and the original value is kept.
func (s *InputSanitizer) Sanitize(value any, mode Mode) *result.Result {
	return s.walk(value, mode)
}

func (s *InputSanitizer) walk(value any, mode Mode) *result.Result {
	switch v := value.(type) {
	case string:
		return s.sanitizeString(v, mode)
	case []any:
		r := result.New("", value)
		out := make([]any, len(v))
		for i, item := range v {
			child := s.walk(item, mode)
			r.Merge(child, fmt.Sprintf("Item %d: ", i))
			out[i] = child.Value
		}
		if r.Valid {
			r.Value = out
		}
		return r
	case map[string]any:
		r := result.New("", value)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(v))
		for _, k := range keys {
			child := s.walk(v[k], mode)
			r.Merge(child, fmt.Sprintf("Field '%s': ", k))
			out[k] = child.Value
		}
		if r.Valid {
			r.Value = out
		}
		return r
	default:
		return result.New("", value)
	}
}

func (s *InputSanitizer) sanitizeString(v string, mode Mode) *result.Result {
	switch mode {
	case ModeAuto:
		r := result.New("", v)
		current := v
		for _, step := range s.autoChain() {
			next := safely(step, current)
			r.Merge(next, "")
			if !next.Valid {
				break
			}
			current = next.Value.(string)
		}
		if r.Valid {
			r.Value = current
		}
		return r
	case ModeHTML:
		return safely(s.html, v)
	case ModeSQL:
		return safely(s.sql, v)
	case ModePath:
		return safely(s.path, v)
	case ModeURL:
		return safely(s.url, v)
	case ModeData:
		return safely(s.data, v)
	}

	return result.Invalid("", v, result.KindSystem, fmt.Sprintf("Unknown sanitization mode %s", mode))
}

func (s *InputSanitizer) autoChain() []Sanitizer {
	chain := make([]Sanitizer, 0, 3)
	if s.cfg.EnableXSSProtection {
		chain = append(chain, s.html)
	}
	if s.cfg.EnableSQLInjectionProtection {
		chain = append(chain, s.sql)
	}
	if s.cfg.EnablePathTraversalProtection {
		chain = append(chain, s.path)
	}

	return chain
}

// safely runs san, converting a panic into an error result that keeps v.
func safely(san Sanitizer, v string) (r *result.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r = result.Invalid("", v, result.KindSystem, fmt.Sprintf("Sanitization failed: %v", rec))
		}
	}()

	return san.Sanitize(v)
}
