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

// Package guard validates, coerces and sanitizes untyped data at system
// boundaries.
//
// A [Service] combines the building blocks in the sub-packages: schemas
// (package schema), output contracts (package contract), sanitizers
// (package sanitize) and result aggregation (package report). Every entry
// point returns a [result.Result]; expected validation failures are never
// reported as Go errors or panics.
//
// # Quick Start
//
//	svc := guard.MustNew()
//
//	user := schema.NewDict("user",
//	    schema.WithField("name", schema.NewString("name", schema.WithLength(1, 64))),
//	    schema.WithField("age", schema.NewBasic("age", coerce.TargetInt)),
//	    schema.WithRequiredFields("name"),
//	)
//	_ = svc.RegisterSchema(user)
//
//	r := svc.Validate(ctx, map[string]any{"name": "Ada", "age": "36"},
//	    guard.WithSchemaName("user"))
//	// r.Valid == true, age coerced to 36 with one warning
//
// # Schema-less Validation
//
// Without a schema the service only sanitizes (when enabled) and enforces
// the string length, list length and dictionary depth limits of the
// configuration.
//
// # Shared State
//
// Schemas, named contracts, counters and the result cache live in a
// [Runtime]. Pass the same runtime to several services with [WithRuntime]
// to share them; call [Runtime.Reset] to start over.
//
// # Observability
//
//	svc := guard.MustNew(
//	    guard.WithLogger(logging.MustNew(logging.WithJSONHandler())),
//	    guard.WithRecorder(metrics.MustNew(metrics.WithPrometheus())),
//	    guard.WithTracer(tracing.MustNew(tracing.WithStdout()).Tracer()),
//	)
//
// Slow validations and panics are logged, every call is counted and
// optionally traced. None of this affects results.
package guard
