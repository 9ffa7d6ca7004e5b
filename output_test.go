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

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/guard/coerce"
	"rivaas.dev/guard/config"
	"rivaas.dev/guard/contract"
)

func userContract(t *testing.T) *contract.Contract {
	t.Helper()
	c, err := contract.New("user", contract.KindDict,
		contract.WithRequiredFields("id", "name"),
		contract.WithFieldType("id", coerce.TargetInt),
		contract.WithFieldType("name", coerce.TargetString),
		contract.WithExtraFields(false),
	)
	require.NoError(t, err)
	return c
}

func TestService_RegisterContract(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	require.NoError(t, svc.RegisterContract("user", userContract(t)))
	require.ErrorIs(t, svc.RegisterContract("user", userContract(t)), ErrDuplicateContract)
	require.ErrorIs(t, svc.RegisterContract("nil", nil), ErrNilContract)

	got, err := svc.Contract("user")
	require.NoError(t, err)
	assert.Equal(t, "user", got.Name())

	_, err = svc.Contract("order")
	require.ErrorIs(t, err, ErrContractNotFound)
}

func TestService_ValidateOutput(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	require.NoError(t, svc.RegisterContract("user", userContract(t)))

	t.Run("by name", func(t *testing.T) {
		t.Parallel()
		r := svc.ValidateOutput(t.Context(), map[string]any{"id": 1, "name": "Ada"}, WithContractName("user"))
		assert.True(t, r.Valid, r.ErrorMessages())
	})

	t.Run("three distinct errors", func(t *testing.T) {
		t.Parallel()
		r := svc.ValidateOutput(t.Context(),
			map[string]any{"id": "1", "name": 2, "extra": true},
			WithContract(userContract(t)))
		require.False(t, r.Valid)
		assert.GreaterOrEqual(t, len(r.Errors), 3)
		assert.Contains(t, r.ErrorMessages(), "Unexpected field 'extra'")
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		r := svc.ValidateOutput(t.Context(), map[string]any{}, WithContractName("order"))
		assert.Equal(t, []string{"Output contract 'order' is not registered"}, r.ErrorMessages())
	})

	t.Run("heuristic", func(t *testing.T) {
		t.Parallel()
		r := svc.ValidateOutput(t.Context(), []any{})
		assert.True(t, r.Valid)
		assert.Equal(t, []string{"Output is an empty list"}, r.WarningMessages())
	})

	t.Run("permissive", func(t *testing.T) {
		t.Parallel()
		cfg := config.MustNew(config.WithLevel(config.LevelPermissive))
		r := svc.ValidateOutput(t.Context(), map[string]any{"id": 1}, WithContractName("user"), WithConfig(cfg))
		assert.True(t, r.Valid)
		assert.Equal(t, []string{"permissive: Missing required field 'name'"}, r.WarningMessages())
	})
}

func TestService_ValidateOutput_CountsMetrics(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	svc.ValidateOutput(t.Context(), "ok")
	svc.ValidateOutput(t.Context(), nil, WithContractName("missing"))

	snap := svc.Metrics()
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Failed)
}

func TestService_HTTPAndAPIError(t *testing.T) {
	t.Parallel()

	svc := MustNew()
	r := svc.ValidateHTTPResponse(map[string]any{"status_code": 404, "body": "nope"}, contract.WithExpectedStatus(404))
	assert.True(t, r.Valid, r.ErrorMessages())

	r = svc.ValidateAPIError(map[string]any{"detail": "not found"})
	assert.True(t, r.Valid)

	r = svc.ValidateAPIError(map[string]any{"code": 1})
	assert.False(t, r.Valid)
}
