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

package contract

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"rivaas.dev/guard/coerce"
)

// ErrInvalidContract is returned by [New] for contracts that cannot be
// evaluated.
var ErrInvalidContract = errors.New("invalid contract")

// Kind selects how a contract is evaluated.
type Kind uint8

// Contract kinds.
const (
	KindDict Kind = iota
	KindList
	KindJSONAPI
	KindREST
	KindModel
	KindScalar
	KindCustom
)

var kindNames = [...]string{
	KindDict:    "dict",
	KindList:    "list",
	KindJSONAPI: "jsonapi",
	KindREST:    "rest",
	KindModel:   "model",
	KindScalar:  "scalar",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	if i := slices.Index(kindNames[:], strings.ToLower(strings.TrimSpace(name))); i >= 0 {
		return Kind(i), nil
	}

	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidContract, name)
}

// Predicate is a named check used by [KindCustom] contracts.
type Predicate struct {
	Name  string
	Check func(value any) bool
}

// Contract is an immutable description of an expected value shape.
type Contract struct {
	name       string
	kind       Kind
	required   []string
	fieldTypes map[string]coerce.Target
	strict     bool
	allowExtra bool
	valueType  coerce.Target
	minLength  int
	maxLength  int
	predicates []Predicate
}

// Option configures a [Contract].
type Option func(*Contract)

// WithRequiredFields lists keys (or model attributes) that must exist.
func WithRequiredFields(names ...string) Option {
	return func(c *Contract) { c.required = append(c.required, names...) }
}

// WithFieldType declares the expected type of a field. Types are only
// checked when strict types are on.
func WithFieldType(name string, t coerce.Target) Option {
	return func(c *Contract) {
		if c.fieldTypes == nil {
			c.fieldTypes = make(map[string]coerce.Target)
		}
		c.fieldTypes[name] = t
	}
}

// WithStrictTypes toggles field type checks. Enabled by default.
func WithStrictTypes(enabled bool) Option {
	return func(c *Contract) { c.strict = enabled }
}

// WithExtraFields controls whether fields without a declared type or
// requirement are accepted. Allowed by default.
func WithExtraFields(allowed bool) Option {
	return func(c *Contract) { c.allowExtra = allowed }
}

// WithType sets the expected type of a [KindScalar] value.
func WithType(t coerce.Target) Option {
	return func(c *Contract) { c.valueType = t }
}

// WithLength bounds list lengths and scalar string lengths. A max of zero
// means no upper bound.
func WithLength(minLength, maxLength int) Option {
	return func(c *Contract) {
		c.minLength = minLength
		c.maxLength = maxLength
	}
}

// WithPredicate adds a named check to a [KindCustom] contract.
func WithPredicate(name string, check func(value any) bool) Option {
	return func(c *Contract) {
		c.predicates = append(c.predicates, Predicate{Name: name, Check: check})
	}
}

// New returns a contract of kind k.
func New(name string, k Kind, opts ...Option) (*Contract, error) {
	c := &Contract{
		name:       name,
		kind:       k,
		strict:     true,
		allowExtra: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("contract %q: %w", name, err)
	}

	return c, nil
}

// MustNew is like [New] but panics on error.
func MustNew(name string, k Kind, opts ...Option) *Contract {
	c, err := New(name, k, opts...)
	if err != nil {
		panic(err)
	}

	return c
}

func (c *Contract) validate() error {
	var errs []error
	if int(c.kind) >= len(kindNames) {
		errs = append(errs, fmt.Errorf("%w: unknown kind %d", ErrInvalidContract, c.kind))
	}
	if c.minLength < 0 || c.maxLength < 0 {
		errs = append(errs, fmt.Errorf("%w: negative length bound", ErrInvalidContract))
	}
	if c.maxLength > 0 && c.minLength > c.maxLength {
		errs = append(errs, fmt.Errorf("%w: min length %d exceeds max length %d", ErrInvalidContract, c.minLength, c.maxLength))
	}
	if c.kind == KindCustom && len(c.predicates) == 0 {
		errs = append(errs, fmt.Errorf("%w: custom contract needs at least one predicate", ErrInvalidContract))
	}
	for _, p := range c.predicates {
		if p.Check == nil {
			errs = append(errs, fmt.Errorf("%w: predicate %q is nil", ErrInvalidContract, p.Name))
		}
	}

	return errors.Join(errs...)
}

// Name returns the contract name.
func (c *Contract) Name() string { return c.name }

// Kind returns the contract kind.
func (c *Contract) Kind() Kind { return c.kind }

// known reports whether field is declared by the contract.
func (c *Contract) known(field string) bool {
	if _, ok := c.fieldTypes[field]; ok {
		return true
	}

	return slices.Contains(c.required, field)
}

func (c *Contract) typedFields() []string {
	names := make([]string, 0, len(c.fieldTypes))
	for name := range c.fieldTypes {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
