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

// Absences declares the absence resource operations.
func Absences() *resource.Config {
	// The UI collects the absence period as one nested object; the
	// backend wants the bounds flattened with its own key names.
	period := guard.SubObject([]guard.SubField{
		{Key: "from", Guard: guard.NonEmptyString(), Rename: "startDate"},
		{Key: "to", Guard: guard.NonEmptyString(), Rename: "endDate"},
		{Key: "halfDay", Guard: guard.NullOr(guard.Bool()), Rename: "halfDayStart"},
	})

	return &resource.Config{
		OperationParameter: operationParameter,
		Operations: map[string]resource.Operation{
			"getAbsenceById": {
				Method: "GET",
				Path:   "absences/{absenceId}",
				Fields: map[string]resource.Field{
					"absenceId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
			"getAbsences": {
				Method: "GET",
				Path:   "absences",
				Fields: map[string]resource.Field{
					"employeeId": {Location: resource.LocationQuery, Guard: guard.NullOr(guard.PositiveNumber())},
					"from":       {Location: resource.LocationQuery, Name: "startDate", Guard: guard.NullOr(guard.NonEmptyString())},
					"to":         {Location: resource.LocationQuery, Name: "endDate", Guard: guard.NullOr(guard.NonEmptyString())},
					"types":      {Location: resource.LocationQuery, Guard: guard.NullOr(guard.StringList())},
				},
			},
			"createAbsence": {
				Method: "POST",
				Path:   "absences",
				Fields: map[string]resource.Field{
					"employeeId": {Location: resource.LocationBody, Guard: guard.PositiveNumber()},
					"type":       {Location: resource.LocationBody, Guard: guard.NonEmptyString()},
					"note":       {Location: resource.LocationBody, Guard: guard.NullOr(guard.String())},
					"period": {
						Location: resource.LocationBody,
						Spread:   true,
						Guard:    guard.NullOr(period),
					},
				},
			},
			"deleteAbsence": {
				Method: "DELETE",
				Path:   "absences/{absenceId}",
				Fields: map[string]resource.Field{
					"absenceId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
		},
	}
}
