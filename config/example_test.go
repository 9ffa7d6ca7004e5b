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

package config_test

import (
	"context"
	"fmt"

	"rivaas.dev/guard/config"
	"rivaas.dev/guard/config/codec"
)

func ExampleNew() {
	cfg := config.MustNew(
		config.WithLevel(config.LevelLenient),
		config.WithMaxStringLength(64),
	)
	fmt.Println(cfg.Level, cfg.MaxStringLength)
	// Output: lenient 64
}

func ExampleLoad() {
	cfg, err := config.Load(context.Background(),
		config.WithContent([]byte("level: permissive\nstrict_types: true\n"), codec.TypeYAML),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Level, cfg.StrictTypes)
	// Output: permissive true
}
