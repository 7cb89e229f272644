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

// Package resource defines the declarative configuration model interpreted
// by the request engine.
//
// A Config describes one API resource: which parameter selects the
// operation, and for each named operation the HTTP method, path template,
// and a field map declaring where every parameter is placed in the
// outgoing request. Configurations are authored once as static data and
// validated at startup; they are immutable at runtime and safe to share.
package resource

import (
	"fmt"
	"strings"

	"github.com/tombee/restop/pkg/guard"
)

// Location declares where a field's value is placed in the request.
type Location int

const (
	// LocationBody places the value in the request body record.
	LocationBody Location = iota

	// LocationQuery places the value in the URL query string.
	LocationQuery

	// LocationPath substitutes the value into the path template.
	LocationPath
)

// String returns the location name for diagnostics.
func (l Location) String() string {
	switch l {
	case LocationBody:
		return "body"
	case LocationQuery:
		return "query"
	case LocationPath:
		return "path"
	default:
		return fmt.Sprintf("location(%d)", int(l))
	}
}

func (l Location) valid() bool {
	return l == LocationBody || l == LocationQuery || l == LocationPath
}

// KeyRequirement constrains which authentication mode an operation accepts.
type KeyRequirement int

const (
	// KeyAny accepts either a pre-shared API token or login credentials.
	KeyAny KeyRequirement = iota

	// KeySystem requires a pre-shared API token.
	KeySystem

	// KeyUser requires username/password login credentials.
	KeyUser
)

// String returns the requirement name for diagnostics.
func (k KeyRequirement) String() string {
	switch k {
	case KeyAny:
		return "any"
	case KeySystem:
		return "system"
	case KeyUser:
		return "user"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// BodyKind selects how the assembled body record is serialized.
type BodyKind int

const (
	// BodyJSON serializes the body record as a JSON document. Default.
	BodyJSON BodyKind = iota

	// BodyMultipart builds a multipart/form-data upload from the body
	// record and a binary attachment of the current input item.
	BodyMultipart
)

// Field declares one operation parameter.
type Field struct {
	// Location is where the guarded value is placed.
	Location Location

	// Name renames the parameter in the outgoing request. Empty means the
	// field-map key is used.
	Name string

	// Default is passed to the parameter source as fallback value.
	Default any

	// Guard validates and coerces the raw value. Required.
	Guard guard.Guard

	// Spread flattens the guarded value into the enclosing record. An
	// object merges its keys in; a list replaces the whole body record.
	// At most one list-producing spread field may exist per operation.
	Spread bool
}

// Operation maps one named unit of work to an HTTP call shape.
type Operation struct {
	// Method is the HTTP method. Required.
	Method string

	// Path is the sub-path template; {name} placeholders are substituted
	// from path-located fields. Required.
	Path string

	// BasePath overrides the API root prefix for this operation.
	// Empty means the engine default applies.
	BasePath string

	// Fields maps parameter keys to their declarations.
	Fields map[string]Field

	// Body selects the body serialization strategy.
	Body BodyKind
}

// Config is the static configuration for one API resource.
type Config struct {
	// OperationParameter is the raw-parameter key selecting the operation.
	OperationParameter string

	// Operations maps operation names to their definitions.
	Operations map[string]Operation

	// Credential constrains which authentication mode operations of this
	// resource accept.
	Credential KeyRequirement
}

// Validate checks the static configuration, failing fast on authoring
// mistakes that would otherwise surface mid-request: missing methods or
// paths, nil guards, unknown locations, and path placeholders without a
// matching path field.
func (c *Config) Validate() error {
	if c.OperationParameter == "" {
		return fmt.Errorf("operation parameter key is required")
	}
	if len(c.Operations) == 0 {
		return fmt.Errorf("at least one operation is required")
	}
	for name, op := range c.Operations {
		if err := op.validate(); err != nil {
			return fmt.Errorf("operation %q: %w", name, err)
		}
	}
	return nil
}

func (o *Operation) validate() error {
	if o.Method == "" {
		return fmt.Errorf("method is required")
	}
	if o.Path == "" {
		return fmt.Errorf("path is required")
	}

	pathFields := make(map[string]bool)
	for key, f := range o.Fields {
		if f.Guard == nil {
			return fmt.Errorf("field %q: guard is required", key)
		}
		if !f.Location.valid() {
			return fmt.Errorf("field %q: unknown location %v", key, f.Location)
		}
		if f.Location == LocationPath {
			pathFields[key] = true
			if f.Name != "" {
				pathFields[f.Name] = true
			}
		}
		if f.Spread && f.Location == LocationPath {
			return fmt.Errorf("field %q: path fields cannot be spread", key)
		}
	}

	for _, placeholder := range Placeholders(o.Path) {
		if !pathFields[placeholder] {
			return fmt.Errorf("path placeholder {%s} has no matching path field", placeholder)
		}
	}
	return nil
}

// Placeholders extracts the {name} parameter names from a path template.
func Placeholders(path string) []string {
	var names []string
	for {
		start := strings.Index(path, "{")
		if start == -1 {
			break
		}
		end := strings.Index(path[start:], "}")
		if end == -1 {
			break
		}
		end += start
		names = append(names, path[start+1:end])
		path = path[end+1:]
	}
	return names
}
