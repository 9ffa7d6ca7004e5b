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
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a [Recorder].
type Option func(*Recorder)

// WithMeterProvider records through a caller-managed provider. Provider
// options are ignored and Shutdown leaves the provider running.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	recorder := metrics.MustNew(metrics.WithMeterProvider(mp))
//	defer mp.Shutdown(context.Background())
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithGlobalMeterProvider also registers the provider with
// otel.SetMeterProvider.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) { r.registerGlobal = true }
}

// WithServiceName sets the service.name attribute.
func WithServiceName(name string) Option {
	return func(r *Recorder) { r.serviceName = name }
}

// WithServiceVersion sets the service.version attribute.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) { r.serviceVersion = version }
}

// WithExportInterval sets how often OTLP and stdout exporters push.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) { r.exportInterval = interval }
}

// WithDurationBuckets sets the validation time histogram boundaries in
// seconds. Boundaries must be strictly increasing.
//
// Example:
//
//	metrics.MustNew(metrics.WithDurationBuckets(0.0001, 0.001, 0.01, 0.1))
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if !slices.IsSorted(buckets) || len(slices.Compact(slices.Clone(buckets))) != len(buckets) {
			r.optionErrors = append(r.optionErrors, errors.New("duration buckets must be strictly increasing"))
			return
		}
		r.durationBuckets = buckets
	}
}

// WithEventHandler sets the handler for internal events.
func WithEventHandler(handler EventHandler) Option {
	return func(r *Recorder) { r.eventHandler = handler }
}

// WithLogger logs internal events to logger.
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(DefaultEventHandler(logger))
}

// WithPrometheus exports through a private Prometheus registry served by
// [Recorder.Handler]. This is the default.
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
	}
}

// WithOTLP pushes to the OTLP/HTTP collector at endpoint, for example
// "http://localhost:4318". An http:// endpoint disables TLS.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithStdout writes measurements as JSON to stdout.
func WithStdout() Option {
	return WithStdoutWriter(nil)
}

// WithStdoutWriter writes measurements as JSON to w.
func WithStdoutWriter(w io.Writer) Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
		r.stdoutWriter = w
	}
}
