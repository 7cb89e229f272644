// Copyright 2025 Tom Barlow
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
)

func TestSubObjectEmptyInput(t *testing.T) {
	specs := []SubField{{Key: "a", Guard: NonEmptyString()}}

	_, err := SubObject(specs)(map[string]any{}, "nested")
	require.Error(t, err, "empty object is rejected without AllowEmpty")

	_, err = SubObject(specs)(nil, "nested")
	require.Error(t, err)

	got, err := SubObject(specs, AllowEmpty())(map[string]any{}, "nested")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got)

	got, err = SubObject(specs, AllowEmpty())(nil, "nested")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got)
}

func TestSubObjectRejectsNonObject(t *testing.T) {
	specs := []SubField{{Key: "a", Guard: String()}}
	_, err := SubObject(specs)("scalar", "nested")
	assert.Error(t, err)
	_, err = SubObject(specs, AllowEmpty())([]any{1}, "nested")
	assert.Error(t, err)
}

func TestSubObjectRenameDefaultsAndOmission(t *testing.T) {
	specs := []SubField{
		{Key: "from", Guard: NonEmptyString(), Rename: "startDate"},
		{Key: "limit", Guard: NullOr(PositiveNumber()), Default: 10.0},
		{Key: "note", Guard: NullOr(String())},
	}

	got, err := SubObject(specs)(map[string]any{"from": "2026-01-01"}, "period")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"startDate": "2026-01-01",
		"limit":     10.0,
	}, got, "renamed field, applied default, omitted absent field")
}

func TestSubObjectFirstWriteWins(t *testing.T) {
	specs := []SubField{
		{Key: "a", Guard: NonEmptyString(), Rename: "shared"},
		{Key: "b", Guard: NonEmptyString(), Rename: "shared"},
	}

	got, err := SubObject(specs)(map[string]any{"a": "first", "b": "second"}, "nested")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"shared": "first"}, got)
}

func TestSubObjectSpread(t *testing.T) {
	specs := []SubField{
		{Key: "name", Guard: NonEmptyString()},
		{Key: "extra", Spread: true, Guard: NullOr(JSONObject())},
	}

	got, err := SubObject(specs)(map[string]any{
		"name":  "x",
		"extra": `{"name":"overridden","color":"red"}`,
	}, "nested")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "x",
		"color": "red",
	}, got, "spread keys merge but cannot overwrite earlier writes")
}

func TestSubObjectSpreadRequiresObject(t *testing.T) {
	specs := []SubField{
		{Key: "extra", Spread: true, Guard: String()},
	}
	_, err := SubObject(specs)(map[string]any{"extra": "scalar"}, "nested")
	assert.Error(t, err)
}

func TestSubArrayBroadcastOnly(t *testing.T) {
	specs := []SubField{
		{Key: "direction", Guard: NonEmptyString()},
		{Key: "duration", Guard: NullOr(NonNegativeNumber())},
	}

	got, err := SubArray(specs)(map[string]any{"direction": "in", "duration": 30.0}, "call")
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"direction": "in", "duration": 30.0},
	}, got, "without rows the base record is the sole element")
}

func TestSubArraySpreadRows(t *testing.T) {
	specs := []SubField{
		{Key: "direction", Guard: NonEmptyString()},
		{Key: "participants", Spread: true, Guard: List(Object())},
	}

	got, err := SubArray(specs)(map[string]any{
		"direction": "in",
		"participants": []any{
			map[string]any{"number": "123"},
			map[string]any{"number": "456"},
		},
	}, "call")
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"direction": "in", "number": "123"},
		map[string]any{"direction": "in", "number": "456"},
	}, got, "scalar siblings are broadcast onto every row")
}

func TestSubArrayBroadcastAfterRows(t *testing.T) {
	// A scalar field declared after the row producer must still reach
	// rows that already exist.
	specs := []SubField{
		{Key: "participants", Spread: true, Guard: List(Object())},
		{Key: "direction", Guard: NonEmptyString()},
	}

	got, err := SubArray(specs)(map[string]any{
		"direction": "out",
		"participants": []any{
			map[string]any{"number": "123"},
		},
	}, "call")
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"direction": "out", "number": "123"},
	}, got)
}

func TestSubArrayPositionalMerge(t *testing.T) {
	specs := []SubField{
		{Key: "first", Spread: true, Guard: List(Object())},
		{Key: "second", Spread: true, Guard: List(Object())},
	}

	got, err := SubArray(specs)(map[string]any{
		"first": []any{
			map[string]any{"a": 1.0},
			map[string]any{"a": 2.0},
		},
		"second": []any{
			map[string]any{"b": 10.0},
			map[string]any{"a": 99.0, "b": 20.0},
			map[string]any{"b": 30.0},
		},
	}, "rows")
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"a": 1.0, "b": 10.0},
		map[string]any{"a": 2.0, "b": 20.0},
		map[string]any{"b": 30.0},
	}, got, "later rows merge positionally without overwriting earlier writes")
}

func TestSubArrayEmptyInput(t *testing.T) {
	specs := []SubField{{Key: "a", Guard: String()}}

	_, err := SubArray(specs)(nil, "rows")
	require.Error(t, err)

	got, err := SubArray(specs, AllowEmpty())(nil, "rows")
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

func TestSubArraySpreadRequiresObjectRows(t *testing.T) {
	specs := []SubField{
		{Key: "rows", Spread: true, Guard: List(String())},
	}
	_, err := SubArray(specs)(map[string]any{"rows": []any{"x"}}, "rows")
	assert.Error(t, err)
}
