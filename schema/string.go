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

package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/result"
)

// String validates text: optional coercion and trimming, length bounds in
// characters and a pattern that must match the whole string.
type String struct {
	Base
	coercer   *coerce.Coercer
	coerce    bool
	strip     bool
	minLength int
	maxLength int
	pattern   string
	re        *regexp.Regexp
}

// NewString returns a string schema.
func NewString(name string, opts ...Option) *String {
	o := applyOptions(opts)
	s := &String{
		strip:     o.strip,
		minLength: o.minLength,
		maxLength: o.maxLength,
		pattern:   o.pattern,
	}
	s.init(name, o)

	s.coerce = s.coercionAllowed()
	s.coercer = s.Base.coercer
	if o.coerce != nil {
		s.coerce = *o.coerce
		if s.coerce && s.coercer.Strategy() == coerce.Strict {
			s.coercer = coerce.New(coerce.Safe)
		}
	}

	return s
}

// Compile compiles the pattern, anchored at both ends.
func (s *String) Compile() error {
	return s.CompileOnce(func() error {
		if s.pattern == "" {
			return nil
		}
		re, err := regexp.Compile(`^(?:` + s.pattern + `)$`)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", s.pattern, err)
		}
		s.re = re

		return nil
	})
}

// Validate checks data. The normalized string is only stored on a valid
// result.
func (s *String) Validate(_ context.Context, data any, field string) *result.Result {
	r, done := s.begin(s, data, field)
	if done {
		return r
	}

	if !convertWith(s.coercer, s.coerce, r, coerce.TargetString, result.KindCoercion) {
		return r
	}
	v := r.Value.(string)
	r.Value = data

	if s.strip {
		if t := strings.TrimSpace(v); t != v {
			r.AddWarning(result.KindConstraint, "Stripped surrounding whitespace")
			v = t
		}
	}

	n := utf8.RuneCountInString(v)
	if n < s.minLength {
		r.AddErrorf(result.KindConstraint, "String is too short (minimum %d characters)", s.minLength)
	}
	if s.maxLength > 0 && n > s.maxLength {
		r.AddErrorf(result.KindConstraint, "String is too long (maximum %d characters)", s.maxLength)
	}
	if s.re != nil && !s.re.MatchString(v) {
		r.AddErrorf(result.KindConstraint, "String does not match pattern '%s'", s.pattern)
	}

	if r.Valid {
		r.Value = v
	}

	return r
}

// maxEmailLength is the longest address accepted, per RFC 5321.
const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validates e-mail addresses. Addresses are trimmed and lower-cased
// before the format check.
type Email struct {
	Base
}

// NewEmail returns an e-mail schema.
func NewEmail(name string, opts ...Option) *Email {
	s := &Email{}
	s.init(name, applyOptions(opts))

	return s
}

// Compile marks the schema compiled. The address pattern is fixed.
func (s *Email) Compile() error {
	return s.CompileOnce(nil)
}

// Validate checks data is a well-formed address.
func (s *Email) Validate(_ context.Context, data any, field string) *result.Result {
	r, done := s.begin(s, data, field)
	if done {
		return r
	}

	raw, ok := data.(string)
	if !ok {
		r.AddErrorf(result.KindStructural, "Expected string, got %s", coerce.TypeName(data))
		return r
	}

	v := strings.ToLower(strings.TrimSpace(raw))
	if v != raw {
		r.AddWarning(result.KindConstraint, "Normalized email address")
	}
	if utf8.RuneCountInString(v) > maxEmailLength {
		r.AddErrorf(result.KindConstraint, "Email address is too long (maximum %d characters)", maxEmailLength)
		return r
	}
	if !emailPattern.MatchString(v) {
		r.AddError(result.KindConstraint, "Invalid email format")
		return r
	}
	r.Value = v

	return r
}
