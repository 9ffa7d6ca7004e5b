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

package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome attribute values.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

func (r *Recorder) initializeInstruments() error {
	var err error

	r.validations, err = r.meter.Int64Counter(
		"guard.validations",
		metric.WithDescription("Number of validations performed"),
	)
	if err != nil {
		return fmt.Errorf("failed to create validations counter: %w", err)
	}

	r.duration, err = r.meter.Float64Histogram(
		"guard.validation.duration",
		metric.WithDescription("Time spent validating one value"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create validation duration histogram: %w", err)
	}

	r.cacheLookups, err = r.meter.Int64Counter(
		"guard.cache.lookups",
		metric.WithDescription("Number of result cache lookups"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache lookups counter: %w", err)
	}

	r.sanitizations, err = r.meter.Int64Counter(
		"guard.sanitizations",
		metric.WithDescription("Number of values passed through a sanitizer"),
	)
	if err != nil {
		return fmt.Errorf("failed to create sanitizations counter: %w", err)
	}

	return nil
}

// RecordValidation records one validation against schema. An empty schema
// name is recorded as "none".
func (r *Recorder) RecordValidation(ctx context.Context, schema string, valid bool, elapsed time.Duration) {
	if r == nil || r.isShuttingDown.Load() {
		return
	}
	if schema == "" {
		schema = "none"
	}
	outcome := OutcomeValid
	if !valid {
		outcome = OutcomeInvalid
	}

	attrs := metric.WithAttributes(append([]attribute.KeyValue{
		attribute.String("schema", schema),
		attribute.String("outcome", outcome),
	}, r.serviceAttrs...)...)
	r.validations.Add(ctx, 1, attrs)
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordCacheLookup records a result cache lookup.
func (r *Recorder) RecordCacheLookup(ctx context.Context, hit bool) {
	if r == nil || r.isShuttingDown.Load() {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	r.cacheLookups.Add(ctx, 1, metric.WithAttributes(append([]attribute.KeyValue{
		attribute.String("result", res),
	}, r.serviceAttrs...)...))
}

// RecordSanitization records one sanitizer pass in mode. changed reports
// whether the value was modified.
func (r *Recorder) RecordSanitization(ctx context.Context, mode string, changed bool) {
	if r == nil || r.isShuttingDown.Load() {
		return
	}
	r.sanitizations.Add(ctx, 1, metric.WithAttributes(append([]attribute.KeyValue{
		attribute.String("mode", mode),
		attribute.Bool("changed", changed),
	}, r.serviceAttrs...)...))
}
