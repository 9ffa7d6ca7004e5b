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

// Package config defines the option bag that steers validation and the
// loader that builds it from files and the environment.
//
// A [Config] is a plain value. The engine copies it and never modifies it,
// so one instance can be shared by any number of concurrent calls.
//
//	cfg := config.MustNew(
//	    config.WithLevel(config.LevelLenient),
//	    config.WithMaxStringLength(4096),
//	)
//
// # Levels
//
// [LevelStrict] and [LevelLenient] both fail on errors and tolerate
// warnings. [LevelPermissive] never fails; errors are downgraded to
// warnings so everything is still collected.
//
// # Loading
//
// [Loader] merges any number of sources in order, later sources winning:
//
//	loader := config.MustNewLoader(
//	    config.WithFile("guard.yaml"),
//	    config.WithEnv("GUARD_"),
//	)
//	cfg, err := loader.Load(ctx)
//
// Keys are the snake_case option names, for example max_string_length or
// enable_xss_protection. They are matched case-insensitively. File formats
// are detected from the extension (.json, .yaml, .yml, .toml) unless
// [WithFileAs] names one explicitly. [Loader.Watch] reloads whenever a
// watched file changes.
package config
