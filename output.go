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

import (
	"context"
	"fmt"
	"time"

	"rivaas.dev/guard/contract"
	"rivaas.dev/guard/result"
)

const outputLabel = "output"

// RegisterContract makes c available to [WithContractName] under name.
func (s *Service) RegisterContract(name string, c *contract.Contract) error {
	if c == nil {
		return ErrNilContract
	}
	if err := s.rt.addContract(name, c); err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}

	return nil
}

// Contract returns the contract registered under name.
func (s *Service) Contract(name string) (*contract.Contract, error) {
	c, ok := s.rt.contract(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrContractNotFound, name)
	}

	return c, nil
}

// ValidateOutput checks outbound data against the contract selected by
// [WithContract] or [WithContractName]. Without either, a heuristic that
// only produces warnings applies.
func (s *Service) ValidateOutput(ctx context.Context, data any, opts ...CallOption) *result.Result {
	c := s.newCall(opts)
	cfg := s.configFor(c)
	start := time.Now()

	ct := c.contract
	label := outputLabel
	var r *result.Result
	switch {
	case ct != nil:
		label = outputLabel + ":" + ct.Name()
	case c.contractName != "":
		label = outputLabel + ":" + c.contractName
		found, ok := s.rt.contract(c.contractName)
		if !ok {
			r = result.Invalid(c.field, data, result.KindSystem,
				fmt.Sprintf("Output contract '%s' is not registered", c.contractName))
		}
		ct = found
	}

	if r == nil {
		validator := s.outputs
		if c.cfg != nil {
			validator = contract.NewValidator(cfg)
		}
		r = validator.Validate(data, ct, c.field)
	}

	r.Duration = time.Since(start)
	applyLevel(r, cfg.Level)
	s.observe(ctx, r, label, cfg)

	return r
}

// ValidateHTTPResponse checks a response mapping with status_code, body and
// headers keys.
func (s *Service) ValidateHTTPResponse(resp any, opts ...contract.HTTPOption) *result.Result {
	return s.outputs.ValidateHTTPResponse(resp, opts...)
}

// ValidateAPIError checks the shape of an API error payload.
func (s *Service) ValidateAPIError(data any) *result.Result {
	return s.outputs.ValidateAPIError(data)
}
