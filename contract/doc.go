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

// Package contract validates outbound data against declarative shape
// contracts.
//
// A [Contract] describes what a response, return value or message must
// look like: required fields, field types, container lengths or arbitrary
// predicates. Contracts are independent of input schemas; they check
// shape, never coerce, and never modify the value.
//
//	c := contract.MustNew("user", contract.KindDict,
//	    contract.WithRequiredFields("id", "name"),
//	    contract.WithFieldType("id", coerce.TargetInt),
//	    contract.WithExtraFields(false),
//	)
//	r := c.Validate(data, "response")
//
// A [Validator] adds the no-contract heuristic and the HTTP response and
// API error checks.
package contract
