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

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/guard/config/codec"
	"rivaas.dev/guard/config/source"
)

// extensionFormats maps file extensions to codec types for automatic format detection.
var extensionFormats = map[string]codec.Type{
	".yaml": codec.TypeYAML,
	".yml":  codec.TypeYAML,
	".json": codec.TypeJSON,
	".toml": codec.TypeTOML,
}

func detectFormat(path string) (codec.Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := extensionFormats[ext]; ok {
		return format, nil
	}

	return "", fmt.Errorf("cannot detect format from extension %q; use WithFileAs() to specify format explicitly", ext)
}

// LoadOption configures a [Loader].
type LoadOption func(*Loader) error

// Loader builds a [Config] by merging sources on top of [Default].
// It holds no loaded state; every call to [Loader.Load] starts over.
type Loader struct {
	base    Config
	sources []Source
	files   []string
	schema  *jsonschema.Schema
}

// WithSource appends a custom source.
func WithSource(src Source) LoadOption {
	return func(l *Loader) error {
		if src == nil {
			return errors.New("config: nil source")
		}
		l.sources = append(l.sources, src)

		return nil
	}
}

// WithFile appends a file source whose format is detected from its extension.
// The file is also watched by [Loader.Watch].
func WithFile(path string) LoadOption {
	return func(l *Loader) error {
		format, err := detectFormat(path)
		if err != nil {
			return err
		}

		return WithFileAs(path, format)(l)
	}
}

// WithFileAs appends a file source decoded with the named codec.
func WithFileAs(path string, format codec.Type) LoadOption {
	return func(l *Loader) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, source.NewFile(path, decoder))
		l.files = append(l.files, path)

		return nil
	}
}

// WithContent appends an in-memory source decoded with the named codec.
func WithContent(data []byte, format codec.Type) LoadOption {
	return func(l *Loader) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, source.NewFileContent(data, decoder))

		return nil
	}
}

// WithEnv appends a source reading environment variables that start with
// prefix. GUARD_MAX_LIST_LENGTH=50 with prefix "GUARD_" sets max_list_length.
func WithEnv(prefix string) LoadOption {
	return func(l *Loader) error {
		l.sources = append(l.sources, source.NewOSEnvVar(prefix))
		return nil
	}
}

// WithBase replaces [Default] as the starting point for loading.
func WithBase(cfg Config) LoadOption {
	return func(l *Loader) error {
		l.base = cfg
		return nil
	}
}

// WithJSONSchema validates the merged raw values against a JSON Schema
// document before they are decoded.
func WithJSONSchema(doc []byte) LoadOption {
	return func(l *Loader) error {
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
		if err != nil {
			return fmt.Errorf("config: parse json schema: %w", err)
		}
		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource("config.schema.json", parsed); err != nil {
			return fmt.Errorf("config: add json schema: %w", err)
		}
		if l.schema, err = compiler.Compile("config.schema.json"); err != nil {
			return fmt.Errorf("config: compile json schema: %w", err)
		}

		return nil
	}
}

// NewLoader creates a loader. Option errors are joined.
func NewLoader(opts ...LoadOption) (*Loader, error) {
	l := &Loader{base: Default()}

	var errs error
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(l); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return l, nil
}

// MustNewLoader is like [NewLoader] but panics on error.
func MustNewLoader(opts ...LoadOption) *Loader {
	l, err := NewLoader(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create loader: %v", err))
	}

	return l
}

// Load is shorthand for NewLoader followed by [Loader.Load].
func Load(ctx context.Context, opts ...LoadOption) (Config, error) {
	l, err := NewLoader(opts...)
	if err != nil {
		return Config{}, err
	}

	return l.Load(ctx)
}

// Load reads every source in order, merges them, and decodes the result
// on top of the base configuration.
//
// Errors:
//   - [*Error] if a source fails to load or merge
//   - [*Error] if JSON Schema validation fails
//   - [*Error] if a value cannot be decoded or a key is unknown
//   - [ErrInvalidConfig] (wrapped) if the decoded config is invalid
func (l *Loader) Load(ctx context.Context) (Config, error) {
	values, err := l.merge(ctx)
	if err != nil {
		return Config{}, err
	}

	if l.schema != nil {
		if err = l.schema.Validate(values); err != nil {
			return Config{}, NewError("json-schema", "validate", err)
		}
	}

	cfg := l.base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return Config{}, NewError("decode", "init", err)
	}
	if err = decoder.Decode(values); err != nil {
		return Config{}, NewError("decode", "bind", err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (l *Loader) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if values == nil {
			continue
		}

		if err = mergo.Map(&merged, normalizeKeys(values), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	return merged, nil
}

// Watch blocks until ctx is done, calling fn with a freshly loaded config
// (or the load error) whenever a file source is written, created or
// renamed into place. Only sources added with [WithFile] or [WithFileAs]
// are watched.
func (l *Loader) Watch(ctx context.Context, fn func(Config, error)) error {
	if len(l.files) == 0 {
		return errors.New("config: no file sources to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return NewError("watch", "init", err)
	}
	defer watcher.Close()

	files := make(map[string]struct{}, len(l.files))
	dirs := make(map[string]struct{})
	for _, f := range l.files {
		abs, absErr := filepath.Abs(f)
		if absErr != nil {
			return NewError("watch", "resolve", absErr)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	// Directories rather than files so editors that replace files by rename
	// keep triggering events.
	for dir := range dirs {
		if err = watcher.Add(dir); err != nil {
			return NewError("watch", "add", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, hit := files[filepath.Clean(event.Name)]; !hit {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			fn(l.Load(ctx))
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(Config{}, NewError("watch", "notify", werr))
		}
	}
}

func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}

	return out
}
