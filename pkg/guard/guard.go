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

// Package guard provides composable validation and coercion functions for
// raw operation parameters.
//
// A Guard receives an arbitrary raw value together with the user-facing
// field name and either returns the coerced value or a *ValidationError
// naming the field and the violated constraint. Guards compose: NullOr
// passes absent values through, List maps a guard over a slice, JSONThen
// parses a JSON object before delegating. A guard result of (nil, nil)
// means the field is absent and must be omitted from the request.
package guard

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Guard validates and coerces one raw parameter value.
// Returning (nil, nil) omits the field from the assembled request.
type Guard func(value any, field string) (any, error)

// ValidationError reports a rejected parameter value.
type ValidationError struct {
	// Field is the user-facing parameter name.
	Field string

	// Message describes the violated constraint.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for field %q: %s", e.Field, e.Message)
}

func fail(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// asNumber converts the numeric types a parameter source may hand us.
// JSON-decoded parameters arrive as float64; host runtimes may pass
// native integers.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func isPlainObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// String accepts string values and trims surrounding whitespace.
func String() Guard {
	return func(v any, field string) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fail(field, "expected a string, got %T", v)
		}
		return strings.TrimSpace(s), nil
	}
}

// NonEmptyString accepts strings that are non-blank after trimming.
func NonEmptyString() Guard {
	return func(v any, field string) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fail(field, "expected a string, got %T", v)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fail(field, "must not be empty")
		}
		return s, nil
	}
}

// Number accepts numeric values, rejecting NaN.
func Number() Guard {
	return func(v any, field string) (any, error) {
		n, ok := asNumber(v)
		if !ok {
			return nil, fail(field, "expected a number, got %T", v)
		}
		if math.IsNaN(n) {
			return nil, fail(field, "must be a valid number")
		}
		return n, nil
	}
}

// PositiveNumber accepts numbers strictly greater than zero.
func PositiveNumber() Guard {
	return numberWhere(func(n float64) bool { return n > 0 }, "must be greater than zero")
}

// NonNegativeNumber accepts numbers greater than or equal to zero.
func NonNegativeNumber() Guard {
	return numberWhere(func(n float64) bool { return n >= 0 }, "must not be negative")
}

// NonZeroNumber accepts any number except zero.
func NonZeroNumber() Guard {
	return numberWhere(func(n float64) bool { return n != 0 }, "must not be zero")
}

func numberWhere(pred func(float64) bool, constraint string) Guard {
	num := Number()
	return func(v any, field string) (any, error) {
		out, err := num(v, field)
		if err != nil {
			return nil, err
		}
		n := out.(float64)
		if !pred(n) {
			return nil, fail(field, "%s", constraint)
		}
		return n, nil
	}
}

// Bool accepts boolean values. No coercion from strings or numbers.
func Bool() Guard {
	return func(v any, field string) (any, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, fail(field, "expected a boolean, got %T", v)
		}
		return b, nil
	}
}

// StringList splits a comma-separated string into trimmed entries,
// dropping empty ones.
func StringList() Guard {
	return func(v any, field string) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fail(field, "expected a comma-separated string, got %T", v)
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}
}

// JSONObject parses a JSON string into an object. The empty string yields
// an empty object; parsed values that are not objects are rejected.
func JSONObject() Guard {
	return func(v any, field string) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fail(field, "expected a JSON string, got %T", v)
		}
		if strings.TrimSpace(s) == "" {
			return map[string]any{}, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return nil, fail(field, "must be valid JSON: %v", err)
		}
		obj, ok := parsed.(map[string]any)
		if !ok {
			return nil, fail(field, "must be a JSON object")
		}
		return obj, nil
	}
}

// List requires an actual slice and maps the element guard over it.
func List(element Guard) Guard {
	return func(v any, field string) (any, error) {
		items, ok := v.([]any)
		if !ok {
			return nil, fail(field, "expected a list, got %T", v)
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			checked, err := element(item, field)
			if err != nil {
				return nil, err
			}
			out = append(out, checked)
		}
		return out, nil
	}
}

// Object accepts plain objects, rejecting slices and scalars.
func Object() Guard {
	return func(v any, field string) (any, error) {
		m, ok := isPlainObject(v)
		if !ok {
			return nil, fail(field, "expected an object, got %T", v)
		}
		return m, nil
	}
}

// NonEmptyObject accepts plain objects with at least one key.
func NonEmptyObject() Guard {
	return func(v any, field string) (any, error) {
		m, ok := isPlainObject(v)
		if !ok {
			return nil, fail(field, "expected an object, got %T", v)
		}
		if len(m) == 0 {
			return nil, fail(field, "must not be empty")
		}
		return m, nil
	}
}

// NullOr passes absent values through as omitted and delegates everything
// else to the inner guard.
func NullOr(inner Guard) Guard {
	return func(v any, field string) (any, error) {
		if v == nil {
			return nil, nil
		}
		return inner(v, field)
	}
}

// JSONThen parses the value as a JSON object first, then delegates the
// parsed object to the inner guard.
func JSONThen(inner Guard) Guard {
	parse := JSONObject()
	return func(v any, field string) (any, error) {
		parsed, err := parse(v, field)
		if err != nil {
			return nil, err
		}
		return inner(parsed, field)
	}
}

// Discard always omits the field regardless of input. Used to suppress a
// parameter the downstream API documents but must not receive.
func Discard() Guard {
	return func(any, string) (any, error) {
		return nil, nil
	}
}
