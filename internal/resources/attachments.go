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

// Attachments declares the ticket attachment resource operations.
func Attachments() *resource.Config {
	return &resource.Config{
		OperationParameter: operationParameter,
		Operations: map[string]resource.Operation{
			"uploadAttachment": {
				Method: "POST",
				Path:   "tickets/{ticketId}/attachments",
				Body:   resource.BodyMultipart,
				Fields: map[string]resource.Field{
					"ticketId":           {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
					"binaryPropertyName": {Location: resource.LocationBody, Default: "data", Guard: guard.NonEmptyString()},
					"descriptions":       {Location: resource.LocationBody, Default: "", Guard: guard.String()},
					"internal":           {Location: resource.LocationBody, Default: false, Guard: guard.Bool()},
				},
			},
			"getAttachments": {
				Method: "GET",
				Path:   "tickets/{ticketId}/attachments",
				Fields: map[string]resource.Field{
					"ticketId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
			"deleteAttachment": {
				Method: "DELETE",
				Path:   "tickets/{ticketId}/attachments/{attachmentId}",
				Fields: map[string]resource.Field{
					"ticketId":     {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
					"attachmentId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
		},
	}
}
