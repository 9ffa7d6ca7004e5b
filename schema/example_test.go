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

package schema_test

import (
	"context"
	"fmt"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/schema"
)

func ExampleDict() {
	user := schema.NewDict("user",
		schema.WithField("email", schema.NewEmail("email")),
		schema.WithField("age", schema.NewBasic("age", coerce.TargetInt)),
		schema.WithRequiredFields("email"),
	)

	r := user.Validate(context.Background(), map[string]any{"email": "Ann@Example.com", "age": "42"}, "user")
	fmt.Println(r.Valid)
	fmt.Println(r.Value)
	for _, w := range r.WarningMessages() {
		fmt.Println(w)
	}
	// Output:
	// true
	// map[age:42 email:ann@example.com]
	// Field 'age': Coerced string to int
	// Field 'email': Normalized email address
}

func ExampleList() {
	tags := schema.NewList("tags",
		schema.WithItems(schema.NewString("tag", schema.WithLength(1, 8))),
		schema.WithUnique(),
	)

	r := tags.Validate(context.Background(), []any{"go", "a-very-long-tag"}, "tags")
	fmt.Println(r.Valid)
	fmt.Println(r.Value)
	fmt.Println(r.ErrorMessages())
	// Output:
	// false
	// [go]
	// [Item 1: String is too long (maximum 8 characters)]
}
