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

func TestStringGuards(t *testing.T) {
	tests := []struct {
		name    string
		guard   Guard
		value   any
		want    any
		wantErr bool
	}{
		{name: "string trims", guard: String(), value: "  hello  ", want: "hello"},
		{name: "string accepts blank", guard: String(), value: "   ", want: ""},
		{name: "string rejects number", guard: String(), value: 5.0, wantErr: true},
		{name: "non-empty string trims", guard: NonEmptyString(), value: " x ", want: "x"},
		{name: "non-empty string rejects blank", guard: NonEmptyString(), value: "   ", wantErr: true},
		{name: "non-empty string rejects bool", guard: NonEmptyString(), value: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.guard(tt.value, "field")
			if tt.wantErr {
				require.Error(t, err)
				var rejected *ValidationError
				require.ErrorAs(t, err, &rejected)
				assert.Equal(t, "field", rejected.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberGuards(t *testing.T) {
	tests := []struct {
		name    string
		guard   Guard
		value   any
		want    float64
		wantErr bool
	}{
		{name: "number accepts float", guard: Number(), value: 1.5, want: 1.5},
		{name: "number accepts int", guard: Number(), value: 7, want: 7},
		{name: "number rejects string", guard: Number(), value: "7", wantErr: true},
		{name: "positive accepts one", guard: PositiveNumber(), value: 1.0, want: 1},
		{name: "positive rejects zero", guard: PositiveNumber(), value: 0.0, wantErr: true},
		{name: "positive rejects negative", guard: PositiveNumber(), value: -3.0, wantErr: true},
		{name: "non-negative accepts zero", guard: NonNegativeNumber(), value: 0.0, want: 0},
		{name: "non-negative rejects negative", guard: NonNegativeNumber(), value: -0.1, wantErr: true},
		{name: "non-zero accepts negative", guard: NonZeroNumber(), value: -2.0, want: -2},
		{name: "non-zero rejects zero", guard: NonZeroNumber(), value: 0.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.guard(tt.value, "count")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBool(t *testing.T) {
	got, err := Bool()(true, "flag")
	require.NoError(t, err)
	assert.Equal(t, true, got)

	// No coercion: strings and numbers are rejected.
	_, err = Bool()("true", "flag")
	assert.Error(t, err)
	_, err = Bool()(1.0, "flag")
	assert.Error(t, err)
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "splits and trims", value: "a, b ,c", want: []string{"a", "b", "c"}},
		{name: "drops empties", value: "a,,b,", want: []string{"a", "b"}},
		{name: "empty string yields empty list", value: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringList()(tt.value, "tags")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := StringList()(42, "tags")
	assert.Error(t, err)
}

func TestJSONObject(t *testing.T) {
	got, err := JSONObject()("", "extra")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got)

	got, err = JSONObject()(`{"a":1}`, "extra")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, got)

	_, err = JSONObject()("not json", "extra")
	assert.Error(t, err)

	_, err = JSONObject()(`[1,2]`, "extra")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	got, err := List(NonEmptyString())([]any{"a", " b "}, "items")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	_, err = List(NonEmptyString())("a,b", "items")
	assert.Error(t, err)

	_, err = List(NonEmptyString())([]any{"a", ""}, "items")
	assert.Error(t, err)
}

func TestObjectGuards(t *testing.T) {
	obj := map[string]any{"k": "v"}

	got, err := Object()(obj, "record")
	require.NoError(t, err)
	assert.Equal(t, obj, got)

	_, err = Object()([]any{}, "record")
	assert.Error(t, err)

	_, err = NonEmptyObject()(map[string]any{}, "record")
	assert.Error(t, err)

	got, err = NonEmptyObject()(obj, "record")
	require.NoError(t, err)
	assert.Equal(t, obj, got)
}

func TestNullOr(t *testing.T) {
	inner := NonEmptyString()

	got, err := NullOr(inner)(nil, "field")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = NullOr(inner)("x", "field")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = NullOr(inner)("", "field")
	assert.Error(t, err)
}

func TestJSONThen(t *testing.T) {
	got, err := JSONThen(NonEmptyObject())(`{"a":1}`, "field")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, got)

	_, err = JSONThen(NonEmptyObject())("", "field")
	assert.Error(t, err, "empty parse yields {} which the inner guard rejects")
}

func TestDiscard(t *testing.T) {
	for _, value := range []any{nil, "x", 42, map[string]any{"a": 1}} {
		got, err := Discard()(value, "field")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}
