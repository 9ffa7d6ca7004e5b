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

// Package logging provides the structured logger used by the guard
// validation service.
//
// It wraps [log/slog] with JSON, text and console handlers, redaction of
// sensitive attribute keys, optional sampling and trace correlation for
// validation events.
//
// # Basic Usage
//
//	logger := logging.MustNew(logging.WithConsoleHandler())
//	defer logger.Shutdown(context.Background())
//	logger.Info("schema registered", "schema", "user")
//
// # Validation Events
//
// The service reports two events through the logger: validations that exceed
// the configured time budget and validations that panicked.
//
//	logger.SlowValidation(ctx, "payload.email", "user", elapsed, threshold)
//	logger.ValidationPanic(ctx, "payload", "user", recovered)
//
// Both attach trace_id and span_id when ctx carries an active span.
//
// # Redaction
//
// Attributes named password, token, secret, api_key or authorization are
// replaced with "***REDACTED***". Use [WithRedactedKeys] to extend the list.
//
// # Sampling
//
// [WithSampling] limits the volume of debug, info and warn entries. Errors are
// never sampled.
//
// # Testing
//
//	th := logging.NewTestHelper(t)
//	th.Logger.Warn("slow validation", "field", "age")
//	th.AssertLog(t, "WARN", "slow validation", map[string]any{"field": "age"})
package logging
