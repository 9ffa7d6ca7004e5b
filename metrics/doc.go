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

// Package metrics tracks validation activity.
//
// [Counters] keeps the process-local totals the service reports through
// its Metrics method: validations, successes, failures, timing and cache
// hits. They need no exporter and are always on.
//
// [Recorder] mirrors the same observations into OpenTelemetry instruments
// so they can be scraped or pushed:
//
//	recorder := metrics.MustNew(
//	    metrics.WithPrometheus(),
//	    metrics.WithServiceName("orders-api"),
//	)
//	defer recorder.Shutdown(context.Background())
//
//	handler, _ := recorder.Handler()
//	mux.Handle("/metrics", handler)
//
// # Providers
//
//   - [PrometheusProvider] (default): a private registry served by [Recorder.Handler]
//   - [OTLPProvider]: pushes to an OTLP/HTTP collector
//   - [StdoutProvider]: writes JSON to stdout or a chosen writer
//
// A caller-managed provider can be supplied with [WithMeterProvider].
//
// # Global State
//
// The global OpenTelemetry meter provider is left untouched unless
// [WithGlobalMeterProvider] is given, so several recorders can coexist.
//
// All types are safe for concurrent use.
package metrics
