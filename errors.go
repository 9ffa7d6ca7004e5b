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

package guard

import "errors"

var (
	// ErrSchemaNotFound is returned when no schema is registered under a name.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrDuplicateSchema is returned when registering a name that is taken.
	ErrDuplicateSchema = errors.New("schema already registered")

	// ErrContractNotFound is returned when no output contract is registered
	// under a name.
	ErrContractNotFound = errors.New("output contract not found")

	// ErrDuplicateContract is returned when registering a contract name
	// that is taken.
	ErrDuplicateContract = errors.New("output contract already registered")

	// ErrNilSchema is returned when registering a nil schema.
	ErrNilSchema = errors.New("schema is nil")

	// ErrNilContract is returned when registering a nil contract.
	ErrNilContract = errors.New("output contract is nil")
)
