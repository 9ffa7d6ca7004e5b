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
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// LogEntry is a decoded JSON log line.
type LogEntry struct {
	Level   string
	Message string
	Attrs   map[string]any
}

// Buffer is a concurrency-safe in-memory writer for test loggers.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Bytes returns a copy of the buffered output.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

// String returns the buffered output.
func (b *Buffer) String() string { return string(b.Bytes()) }

// Reset discards the buffered output.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// NewTestLogger returns a debug-level JSON logger writing to a [Buffer].
func NewTestLogger() (*Logger, *Buffer) {
	buf := &Buffer{}
	return MustNew(WithJSONHandler(), WithOutput(buf), WithLevel(LevelDebug)), buf
}

// ParseJSONLogEntries decodes JSON log lines.
func ParseJSONLogEntries(data []byte) ([]LogEntry, error) {
	var entries []LogEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(sc.Bytes(), &raw); err != nil {
			return nil, err
		}
		e := LogEntry{Attrs: make(map[string]any, len(raw))}
		for k, v := range raw {
			switch k {
			case "time":
			case "level":
				e.Level, _ = v.(string)
			case "msg":
				e.Message, _ = v.(string)
			default:
				e.Attrs[k] = v
			}
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// TestHelper captures log output for assertions.
type TestHelper struct {
	Logger *Logger
	Buffer *Buffer
}

// NewTestHelper creates a [TestHelper] with a debug-level JSON logger.
// opts are applied after the defaults.
func NewTestHelper(t *testing.T, opts ...Option) *TestHelper {
	t.Helper()
	buf := &Buffer{}
	all := append([]Option{WithJSONHandler(), WithOutput(buf), WithLevel(LevelDebug)}, opts...)
	return &TestHelper{Logger: MustNew(all...), Buffer: buf}
}

// Logs returns all captured entries.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return ParseJSONLogEntries(th.Buffer.Bytes())
}

// LastLog returns the most recent entry.
func (th *TestHelper) LastLog() (*LogEntry, error) {
	entries, err := th.Logs()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no log entries found")
	}
	return &entries[len(entries)-1], nil
}

// ContainsLog reports whether any entry has message msg.
func (th *TestHelper) ContainsLog(msg string) bool {
	entries, _ := th.Logs()
	for _, e := range entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any entry has attribute key equal to value.
func (th *TestHelper) ContainsAttr(key string, value any) bool {
	entries, _ := th.Logs()
	for _, e := range entries {
		if v, ok := e.Attrs[key]; ok && attrEqual(v, value) {
			return true
		}
	}
	return false
}

// CountLevel returns the number of entries at level, e.g. "WARN".
func (th *TestHelper) CountLevel(level string) int {
	entries, _ := th.Logs()
	n := 0
	for _, e := range entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Reset clears captured output.
func (th *TestHelper) Reset() { th.Buffer.Reset() }

// AssertLog fails t unless an entry matches level, msg and every attribute
// in attrs.
func (th *TestHelper) AssertLog(t *testing.T, level, msg string, attrs map[string]any) {
	t.Helper()
	entries, err := th.Logs()
	require.NoError(t, err, "failed to parse logs")

	for _, e := range entries {
		if e.Level == level && e.Message == msg && hasAttrs(e, attrs) {
			return
		}
	}
	require.Fail(t, "log entry not found", "level=%s msg=%s attrs=%v", level, msg, attrs)
}

func hasAttrs(e LogEntry, want map[string]any) bool {
	for k, v := range want {
		got, ok := e.Attrs[k]
		if !ok || !attrEqual(got, v) {
			return false
		}
	}
	return true
}

// attrEqual compares a decoded JSON value against an expected Go value.
// JSON numbers decode as float64.
func attrEqual(got, want any) bool {
	if f, ok := got.(float64); ok {
		switch w := want.(type) {
		case int:
			return f == float64(w)
		case int64:
			return f == float64(w)
		case float64:
			return f == w
		}
	}
	return fmt.Sprint(got) == fmt.Sprint(want)
}
