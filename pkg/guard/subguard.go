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

// SubField declares one entry of a nested structured parameter.
// SubObject and SubArray traverse declarations in slice order; merge
// semantics are first-write-wins, so declaration order is significant.
type SubField struct {
	// Key is the sub-parameter name read from the raw object.
	Key string

	// Guard validates the sub-value.
	Guard Guard

	// Default is used when the raw sub-value is absent.
	Default any

	// Rename overrides the output key. Empty means Key is used.
	Rename string

	// Spread flattens the guarded value into the parent instead of
	// nesting it under the field's own key. For SubObject the guard must
	// yield an object; for SubArray it must yield a list of objects that
	// become the output rows.
	Spread bool
}

func (f SubField) outputKey() string {
	if f.Rename != "" {
		return f.Rename
	}
	return f.Key
}

// Option configures SubObject and SubArray guards.
type Option func(*options)

type options struct {
	allowEmpty bool
}

// AllowEmpty makes an absent or empty raw object yield an empty result
// instead of a validation error.
func AllowEmpty() Option {
	return func(o *options) { o.allowEmpty = true }
}

func setIfAbsent(dst map[string]any, key string, value any) {
	if _, exists := dst[key]; !exists {
		dst[key] = value
	}
}

// checkRawObject validates the raw value shared by both factories.
// Returns (nil, nil, true) when the empty result should be produced.
func checkRawObject(v any, field string, opts options) (map[string]any, error, bool) {
	if v == nil {
		if opts.allowEmpty {
			return nil, nil, true
		}
		return nil, fail(field, "must not be empty"), false
	}
	m, ok := isPlainObject(v)
	if !ok {
		return nil, fail(field, "expected an object, got %T", v), false
	}
	if len(m) == 0 {
		if opts.allowEmpty {
			return nil, nil, true
		}
		return nil, fail(field, "must not be empty"), false
	}
	return m, nil, false
}

// SubObject builds a guard producing a single record from a raw object.
// Each declared sub-field is read (falling back to its default), guarded,
// and written to its output key unless that key is already populated.
// Spread fields must guard to an object whose keys merge into the parent.
func SubObject(fields []SubField, opt ...Option) Guard {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	return func(v any, field string) (any, error) {
		raw, err, empty := checkRawObject(v, field, opts)
		if err != nil {
			return nil, err
		}
		if empty {
			return map[string]any{}, nil
		}

		out := make(map[string]any)
		for _, f := range fields {
			value := raw[f.Key]
			if value == nil {
				value = f.Default
			}
			checked, err := f.Guard(value, f.Key)
			if err != nil {
				return nil, err
			}
			if checked == nil {
				continue
			}
			if f.Spread {
				spread, ok := isPlainObject(checked)
				if !ok {
					return nil, fail(f.Key, "spread field must produce an object, got %T", checked)
				}
				for k, sv := range spread {
					setIfAbsent(out, k, sv)
				}
				continue
			}
			setIfAbsent(out, f.outputKey(), checked)
		}
		return out, nil
	}
}

// SubArray builds a guard producing a list of records from a raw object.
//
// Non-spread fields are broadcast: their guarded value is written onto a
// shared base record and copied onto every row produced so far. Spread
// fields must guard to a list of objects; each element becomes one output
// row merged over the current base. A second row-producing field merges
// positionally onto existing rows. If no field produces rows, the base
// record becomes the sole element.
func SubArray(fields []SubField, opt ...Option) Guard {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	return func(v any, field string) (any, error) {
		raw, err, empty := checkRawObject(v, field, opts)
		if err != nil {
			return nil, err
		}
		if empty {
			return []any{}, nil
		}

		base := make(map[string]any)
		var rows []map[string]any
		for _, f := range fields {
			value := raw[f.Key]
			if value == nil {
				value = f.Default
			}
			checked, err := f.Guard(value, f.Key)
			if err != nil {
				return nil, err
			}
			if checked == nil {
				continue
			}
			if !f.Spread {
				key := f.outputKey()
				setIfAbsent(base, key, checked)
				for _, row := range rows {
					setIfAbsent(row, key, checked)
				}
				continue
			}

			items, ok := checked.([]any)
			if !ok {
				return nil, fail(f.Key, "spread field must produce a list, got %T", checked)
			}
			for i, item := range items {
				entry, ok := isPlainObject(item)
				if !ok {
					return nil, fail(f.Key, "spread field entries must be objects, got %T", item)
				}
				if i < len(rows) {
					for k, sv := range entry {
						setIfAbsent(rows[i], k, sv)
					}
					continue
				}
				row := make(map[string]any, len(base)+len(entry))
				for k, sv := range base {
					row[k] = sv
				}
				for k, sv := range entry {
					setIfAbsent(row, k, sv)
				}
				rows = append(rows, row)
			}
		}

		if rows == nil {
			rows = []map[string]any{base}
		}
		out := make([]any, len(rows))
		for i, row := range rows {
			out[i] = row
		}
		return out, nil
	}
}
