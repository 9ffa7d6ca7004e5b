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

// Package codec decodes configuration content into raw value maps.
//
// Decoders register themselves under a [Type] at init time and are looked
// up with [GetDecoder]. JSON, YAML, TOML and environment-variable content
// are available out of the box.
package codec

import (
	"fmt"
	"sync"
)

// Type names a content format.
type Type string

// Decoder converts encoded content into the value pointed to by v.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

var (
	mu       sync.RWMutex
	decoders = make(map[Type]Decoder)
)

// RegisterDecoder makes decoder available under name, replacing any
// previous registration.
func RegisterDecoder(name Type, decoder Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[name] = decoder
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	mu.RLock()
	defer mu.RUnlock()
	decoder, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}

	return decoder, nil
}
