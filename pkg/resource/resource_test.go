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

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/restop/pkg/guard"
)

func validOperation() Operation {
	return Operation{
		Method: "GET",
		Path:   "tickets/{ticketId}",
		Fields: map[string]Field{
			"ticketId": {Location: LocationPath, Guard: guard.PositiveNumber()},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing operation parameter",
			mutate:  func(c *Config) { c.OperationParameter = "" },
			wantErr: "operation parameter key is required",
		},
		{
			name:    "no operations",
			mutate:  func(c *Config) { c.Operations = nil },
			wantErr: "at least one operation is required",
		},
		{
			name: "missing method",
			mutate: func(c *Config) {
				op := c.Operations["get"]
				op.Method = ""
				c.Operations["get"] = op
			},
			wantErr: "method is required",
		},
		{
			name: "missing path",
			mutate: func(c *Config) {
				op := c.Operations["get"]
				op.Path = ""
				c.Operations["get"] = op
			},
			wantErr: "path is required",
		},
		{
			name: "nil guard",
			mutate: func(c *Config) {
				op := c.Operations["get"]
				op.Fields = map[string]Field{
					"ticketId": {Location: LocationPath},
				}
				c.Operations["get"] = op
			},
			wantErr: "guard is required",
		},
		{
			name: "unknown location",
			mutate: func(c *Config) {
				op := c.Operations["get"]
				op.Fields = map[string]Field{
					"ticketId": {Location: Location(42), Guard: guard.PositiveNumber()},
				}
				c.Operations["get"] = op
			},
			wantErr: "unknown location",
		},
		{
			name: "placeholder without path field",
			mutate: func(c *Config) {
				op := c.Operations["get"]
				op.Fields = map[string]Field{}
				c.Operations["get"] = op
			},
			wantErr: "has no matching path field",
		},
		{
			name: "spread path field",
			mutate: func(c *Config) {
				op := c.Operations["get"]
				op.Fields = map[string]Field{
					"ticketId": {Location: LocationPath, Guard: guard.PositiveNumber(), Spread: true},
				}
				c.Operations["get"] = op
			},
			wantErr: "path fields cannot be spread",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				OperationParameter: "operation",
				Operations:         map[string]Operation{"get": validOperation()},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlaceholderRename(t *testing.T) {
	// A renamed path field satisfies a placeholder spelled either way.
	cfg := &Config{
		OperationParameter: "operation",
		Operations: map[string]Operation{
			"get": {
				Method: "GET",
				Path:   "employees/{employeeId}",
				Fields: map[string]Field{
					"id": {Location: LocationPath, Name: "employeeId", Guard: guard.PositiveNumber()},
				},
			},
		},
	}
	assert.NoError(t, cfg.Validate())
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "tickets", want: nil},
		{path: "tickets/{ticketId}", want: []string{"ticketId"}},
		{path: "tickets/{ticketId}/merge/{targetTicketId}", want: []string{"ticketId", "targetTicketId"}},
		{path: "broken/{unclosed", want: nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Placeholders(tt.path), tt.path)
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "body", LocationBody.String())
	assert.Equal(t, "query", LocationQuery.String())
	assert.Equal(t, "path", LocationPath.String())
	assert.Equal(t, "any", KeyAny.String())
	assert.Equal(t, "system", KeySystem.String())
	assert.Equal(t, "user", KeyUser.String())
}
