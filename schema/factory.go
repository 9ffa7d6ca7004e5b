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
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// DecodeFactory is a [ModelFactory] that decodes the field mapping into a
// new value with mapstructure and then checks its `validate` struct tags.
// It returns a pointer to the constructed value.
type DecodeFactory struct {
	tagName     string
	weak        bool
	allowUnused bool

	validateOnce sync.Once
	validate     *validator.Validate
}

// DecodeOption configures a [DecodeFactory].
type DecodeOption func(*DecodeFactory)

// WithDecodeTag sets the struct tag naming decoded fields. Defaults to "json".
func WithDecodeTag(name string) DecodeOption {
	return func(f *DecodeFactory) { f.tagName = name }
}

// WithWeakDecode enables weakly typed decoding, for example "42" into an int.
func WithWeakDecode(enabled bool) DecodeOption {
	return func(f *DecodeFactory) { f.weak = enabled }
}

// WithUnusedFields accepts mapping keys with no matching struct field.
// They are rejected by default.
func WithUnusedFields(allowed bool) DecodeOption {
	return func(f *DecodeFactory) { f.allowUnused = allowed }
}

// WithValidator replaces the struct tag validator.
func WithValidator(v *validator.Validate) DecodeOption {
	return func(f *DecodeFactory) { f.validate = v }
}

// NewDecodeFactory returns a factory decoding by json tag.
func NewDecodeFactory(opts ...DecodeOption) *DecodeFactory {
	f := &DecodeFactory{tagName: "json"}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *DecodeFactory) tagValidator() *validator.Validate {
	f.validateOnce.Do(func() {
		if f.validate != nil {
			return
		}
		f.validate = validator.New(validator.WithRequiredStructEnabled())
		f.validate.RegisterTagNameFunc(jsonFieldName)
	})

	return f.validate
}

// Construct decodes fields into a new *target and validates it.
func (f *DecodeFactory) Construct(ctx context.Context, target reflect.Type, fields map[string]any) (any, error) {
	ptr := reflect.New(target)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           ptr.Interface(),
		TagName:          f.tagName,
		WeaklyTypedInput: f.weak,
		ErrorUnused:      !f.allowUnused,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err = dec.Decode(fields); err != nil {
		return nil, err
	}

	if target.Kind() == reflect.Struct {
		if err = f.tagValidator().StructCtx(ctx, ptr.Interface()); err != nil {
			return nil, formatTagErrors(err)
		}
	}

	return ptr.Interface(), nil
}

func formatTagErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		ns := e.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		parts = append(parts, fmt.Sprintf("%s %s", ns, tagMessage(e)))
	}

	return errors.New(strings.Join(parts, "; "))
}

func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
