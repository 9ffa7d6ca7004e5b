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
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/guard/config"
	"rivaas.dev/guard/contract"
	"rivaas.dev/guard/logging"
	"rivaas.dev/guard/metrics"
	"rivaas.dev/guard/schema"
)

// Option configures a [Service].
type Option func(*Service)

// WithDefaultConfig sets the configuration used by calls that do not
// supply one.
func WithDefaultConfig(cfg config.Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithRuntime shares rt with other services. By default each service owns
// a fresh runtime.
func WithRuntime(rt *Runtime) Option {
	return func(s *Service) { s.rt = rt }
}

// WithLogger sets the logger for slow-validation and panic reports.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRecorder mirrors counters into OpenTelemetry instruments.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithTracer wraps every validation in a "guard.validate" span.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithModelFactory installs the capability used by [Service.ValidateModel].
func WithModelFactory(f schema.ModelFactory) Option {
	return func(s *Service) { s.factory = f }
}

// CallOption configures a single validation call.
type CallOption func(*call)

type call struct {
	cfg          *config.Config
	schema       schema.Schema
	schemaName   string
	contract     *contract.Contract
	contractName string
	field        string
}

// WithSchema validates against s without registering it.
func WithSchema(s schema.Schema) CallOption {
	return func(c *call) { c.schema = s }
}

// WithSchemaName validates against a registered schema.
func WithSchemaName(name string) CallOption {
	return func(c *call) { c.schemaName = name }
}

// WithContract checks output against ct.
func WithContract(ct *contract.Contract) CallOption {
	return func(c *call) { c.contract = ct }
}

// WithContractName checks output against a registered contract.
func WithContractName(name string) CallOption {
	return func(c *call) { c.contractName = name }
}

// WithConfig overrides the service configuration for one call.
func WithConfig(cfg config.Config) CallOption {
	return func(c *call) { c.cfg = &cfg }
}

// WithField names the value in results.
func WithField(name string) CallOption {
	return func(c *call) { c.field = name }
}
