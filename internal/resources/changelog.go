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

// Changelog declares the changelog resource. It lives in the API family
// without the /v1 segment, so every operation overrides the base path.
func Changelog() *resource.Config {
	return &resource.Config{
		OperationParameter: operationParameter,
		Operations: map[string]resource.Operation{
			"getChangelog": {
				Method:   "GET",
				Path:     "changelog",
				BasePath: "/backend/api",
				Fields: map[string]resource.Field{
					"since": {Location: resource.LocationQuery, Guard: guard.NullOr(guard.NonEmptyString())},
					"limit": {Location: resource.LocationQuery, Default: float64(100), Guard: guard.NullOr(guard.PositiveNumber())},
				},
			},
			"getChangelogEntry": {
				Method:   "GET",
				Path:     "changelog/{entryId}",
				BasePath: "/backend/api",
				Fields: map[string]resource.Field{
					"entryId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
		},
	}
}
