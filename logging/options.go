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

package logging

import (
	"io"
	"log/slog"
	"strings"
)

// WithHandlerType selects the output format.
func WithHandlerType(t HandlerType) Option {
	return func(l *Logger) { l.handlerType = t }
}

// WithJSONHandler writes one JSON object per entry.
func WithJSONHandler() Option { return WithHandlerType(JSONHandler) }

// WithTextHandler writes key=value pairs.
func WithTextHandler() Option { return WithHandlerType(TextHandler) }

// WithConsoleHandler writes colored, human-readable lines.
func WithConsoleHandler() Option { return WithHandlerType(ConsoleHandler) }

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.output = w }
}

// WithLevel sets the minimum level.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level.Set(level) }
}

// WithDebugLevel is shorthand for WithLevel(LevelDebug).
func WithDebugLevel() Option { return WithLevel(LevelDebug) }

// WithServiceName adds a "service" attribute to every entry.
func WithServiceName(name string) Option {
	return func(l *Logger) { l.serviceName = name }
}

// WithServiceVersion adds a "version" attribute to every entry.
func WithServiceVersion(version string) Option {
	return func(l *Logger) { l.serviceVersion = version }
}

// WithSource records the caller's file and line.
func WithSource(enabled bool) Option {
	return func(l *Logger) { l.addSource = enabled }
}

// WithReplaceAttr installs an attribute rewriter. It runs after redaction.
func WithReplaceAttr(fn func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(l *Logger) { l.replaceAttr = fn }
}

// WithRedactedKeys adds attribute keys whose values are never written.
// Keys are matched case-insensitively.
func WithRedactedKeys(keys ...string) Option {
	return func(l *Logger) {
		for _, k := range keys {
			l.redactedKeys = append(l.redactedKeys, strings.ToLower(k))
		}
	}
}

// WithSlogLogger routes entries through an existing [slog.Logger]. Handler,
// output, level and redaction options are ignored.
func WithSlogLogger(sl *slog.Logger) Option {
	return func(l *Logger) {
		l.custom = sl
		l.useCustom = true
	}
}

// WithGlobalLogger registers the logger with [slog.SetDefault].
func WithGlobalLogger() Option {
	return func(l *Logger) { l.registerGlobal = true }
}

// WithSampling enables sampling of non-error entries.
func WithSampling(cfg SamplingConfig) Option {
	return func(l *Logger) { l.sampling = &cfg }
}
