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

package resources

import (
	"github.com/tombee/restop/pkg/guard"
	"github.com/tombee/restop/pkg/resource"
)

// Calls declares the call-log resource operations.
func Calls() *resource.Config {
	// One call submission expands into one record per participant. The
	// participants field supplies the rows; direction and duration are
	// scalar siblings broadcast onto every row.
	callRecords := guard.SubArray([]guard.SubField{
		{Key: "direction", Guard: guard.NullOr(guard.NonEmptyString())},
		{Key: "durationSeconds", Guard: guard.NullOr(guard.NonNegativeNumber()), Rename: "duration"},
		{Key: "participants", Spread: true, Guard: guard.NullOr(guard.List(guard.Object()))},
	}, guard.AllowEmpty())

	return &resource.Config{
		OperationParameter: operationParameter,
		Operations: map[string]resource.Operation{
			"getCallById": {
				Method: "GET",
				Path:   "calls/{callId}",
				Fields: map[string]resource.Field{
					"callId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
			"getCalls": {
				Method: "GET",
				Path:   "calls",
				Fields: map[string]resource.Field{
					"employeeId": {Location: resource.LocationQuery, Guard: guard.NullOr(guard.PositiveNumber())},
					"from":       {Location: resource.LocationQuery, Name: "startDate", Guard: guard.NullOr(guard.NonEmptyString())},
					"limit":      {Location: resource.LocationQuery, Default: float64(50), Guard: guard.NullOr(guard.PositiveNumber())},
				},
			},
			"logCalls": {
				Method: "POST",
				Path:   "calls",
				Fields: map[string]resource.Field{
					"call": {
						Location: resource.LocationBody,
						Spread:   true,
						Guard:    guard.NullOr(callRecords),
					},
				},
			},
		},
	}
}
