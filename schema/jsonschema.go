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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"rivaas.dev/guard/result"
)

const jsonSchemaURL = "schema.json"

var printer = message.NewPrinter(language.English)

// JSONSchema validates values against a JSON Schema document. Values are
// compared in their JSON form; the result keeps the original value.
type JSONSchema struct {
	Base
	doc      []byte
	compiled *jsonschema.Schema
}

// NewJSONSchema returns a schema backed by doc. The document is parsed and
// compiled by Compile; format assertions are enabled.
func NewJSONSchema(name string, doc []byte, opts ...Option) *JSONSchema {
	s := &JSONSchema{doc: doc}
	s.init(name, applyOptions(opts))

	return s
}

// Compile parses and compiles the document.
func (s *JSONSchema) Compile() error {
	return s.CompileOnce(func() error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(s.doc))
		if err != nil {
			return fmt.Errorf("invalid schema JSON: %w", err)
		}

		c := jsonschema.NewCompiler()
		c.AssertFormat()
		if err = c.AddResource(jsonSchemaURL, doc); err != nil {
			return fmt.Errorf("failed to add schema resource: %w", err)
		}
		if s.compiled, err = c.Compile(jsonSchemaURL); err != nil {
			return fmt.Errorf("failed to compile schema: %w", err)
		}

		return nil
	})
}

// Validate checks data against the document. Every failing leaf keyword
// becomes one error of the form "path: message".
func (s *JSONSchema) Validate(_ context.Context, data any, field string) *result.Result {
	r, done := s.begin(s, data, field)
	if done {
		return r
	}

	raw, err := json.Marshal(data)
	if err != nil {
		r.AddErrorf(result.KindStructural, "Value is not JSON compatible: %v", err)
		return r
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		r.AddErrorf(result.KindStructural, "Value is not JSON compatible: %v", err)
		return r
	}

	err = s.compiled.Validate(inst)
	if err == nil {
		return r
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		r.AddErrorf(result.KindSystem, "Schema validation failed: %v", err)
		return r
	}
	collectSchemaErrors(verr, r)

	return r
}

func collectSchemaErrors(verr *jsonschema.ValidationError, r *result.Result) {
	if len(verr.Causes) == 0 {
		msg := verr.ErrorKind.LocalizedString(printer)
		if path := strings.Join(verr.InstanceLocation, "."); path != "" {
			msg = path + ": " + msg
		}
		r.AddError(result.KindConstraint, msg)

		return
	}
	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, r)
	}
}
