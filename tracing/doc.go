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


// Package tracing builds the OpenTelemetry tracer that guard wraps each
// validation in.
//
// A [Tracer] owns a tracer provider exporting to stdout, to an OTLP
// collector over gRPC or HTTP, to a caller-supplied span exporter, or to
// nothing at all (the default). Hand it to a service with:
//
//	tr := tracing.MustNew(
//	    tracing.WithServiceName("orders"),
//	    tracing.WithOTLP("collector:4317", tracing.OTLPInsecure()),
//	    tracing.WithSampleRate(0.25),
//	)
//	defer tr.Shutdown(context.Background())
//
//	svc := guard.MustNew(guard.WithTracer(tr.Tracer()))
//
// Providers are never registered globally unless [WithGlobalTracerProvider]
// is given, so several tracers can live in one process.
//
// # Testing
//
// [TestingTracer] records spans in memory:
//
//	tr, spans := tracing.TestingTracer(t)
//	// ... validate with guard.WithTracer(tr.Tracer()) ...
//	names := spans.GetSpans().Snapshots()
package tracing
