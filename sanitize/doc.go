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

// Package sanitize removes dangerous content from untrusted strings.
//
// Five sanitizers are provided: [HTML] (cross-site scripting), [SQL]
// (injection signatures), [Path] (directory traversal), [URL] (unsafe
// schemes and characters) and [Data] (length, control characters and
// encoding). Each returns a *result.Result; none of them panics or
// returns an error for hostile input.
//
// [InputSanitizer] composes them. [ModeAuto] runs the HTML, SQL and Path
// sanitizers enabled in the configuration, in that order, threading the
// value through each. A specific mode runs exactly one sanitizer.
//
//	s := sanitize.New(config.Default())
//	r := s.Sanitize(`<b onclick="x()">hi</b>`, sanitize.ModeHTML)
//	// r.Value == "hi"
//
// The SQL sanitizer only flags injection signatures as warnings. Beyond
// stripping comments and doubling single quotes it leaves the text alone;
// queries must still be parameterized.
package sanitize
