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

// Employees declares the employee resource operations.
func Employees() *resource.Config {
	// Contact details arrive as one nested UI object and are flattened
	// into the employee record the backend expects.
	contactDetails := guard.SubObject([]guard.SubField{
		{Key: "email", Guard: guard.NullOr(guard.NonEmptyString())},
		{Key: "phone", Guard: guard.NullOr(guard.NonEmptyString()), Rename: "phoneNumber"},
		{Key: "mobile", Guard: guard.NullOr(guard.NonEmptyString()), Rename: "mobileNumber"},
	}, guard.AllowEmpty())

	return &resource.Config{
		OperationParameter: operationParameter,
		Operations: map[string]resource.Operation{
			"getEmployeeById": {
				Method: "GET",
				Path:   "employees/{employeeId}",
				Fields: map[string]resource.Field{
					"employeeId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
			"getEmployees": {
				Method: "GET",
				Path:   "employees",
				Fields: map[string]resource.Field{
					"department": {Location: resource.LocationQuery, Guard: guard.NullOr(guard.NonEmptyString())},
					"active":     {Location: resource.LocationQuery, Guard: guard.NullOr(guard.Bool())},
					"limit":      {Location: resource.LocationQuery, Default: float64(50), Guard: guard.NullOr(guard.PositiveNumber())},
				},
			},
			"createEmployee": {
				Method: "POST",
				Path:   "employees",
				Fields: map[string]resource.Field{
					"firstName":  {Location: resource.LocationBody, Guard: guard.NonEmptyString()},
					"lastName":   {Location: resource.LocationBody, Guard: guard.NonEmptyString()},
					"department": {Location: resource.LocationBody, Guard: guard.NullOr(guard.NonEmptyString())},
					"contact": {
						Location: resource.LocationBody,
						Spread:   true,
						Guard:    guard.NullOr(contactDetails),
					},
				},
			},
			"updateEmployee": {
				Method: "PUT",
				Path:   "employees/{employeeId}",
				Fields: map[string]resource.Field{
					"employeeId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
					"department": {Location: resource.LocationBody, Guard: guard.NullOr(guard.NonEmptyString())},
					"active":     {Location: resource.LocationBody, Guard: guard.NullOr(guard.Bool())},
					"contact": {
						Location: resource.LocationBody,
						Spread:   true,
						Guard:    guard.NullOr(contactDetails),
					},
				},
			},
		},
	}
}
