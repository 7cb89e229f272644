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

// Tickets declares the ticket resource operations.
func Tickets(quirks Quirks) *resource.Config {
	// The API documentation lists the ticket ID as required on creation,
	// but the backend assigns it and rejects requests that carry one.
	ticketIDOnCreate := guard.Discard()
	if quirks.RequireIDOnCreate {
		ticketIDOnCreate = guard.NullOr(guard.PositiveNumber())
	}

	return &resource.Config{
		OperationParameter: operationParameter,
		Operations: map[string]resource.Operation{
			"getTicketById": {
				Method: "GET",
				Path:   "tickets/{ticketId}",
				Fields: map[string]resource.Field{
					"ticketId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
			"getTickets": {
				Method: "GET",
				Path:   "tickets",
				Fields: map[string]resource.Field{
					"status":     {Location: resource.LocationQuery, Guard: guard.NullOr(guard.NonEmptyString())},
					"assignedTo": {Location: resource.LocationQuery, Guard: guard.NullOr(guard.PositiveNumber())},
					"tags":       {Location: resource.LocationQuery, Guard: guard.NullOr(guard.StringList())},
					"limit":      {Location: resource.LocationQuery, Default: float64(50), Guard: guard.NullOr(guard.PositiveNumber())},
					"offset":     {Location: resource.LocationQuery, Default: float64(0), Guard: guard.NullOr(guard.NonNegativeNumber())},
				},
			},
			"createTicket": {
				Method: "POST",
				Path:   "tickets",
				Fields: map[string]resource.Field{
					"ticketId":    {Location: resource.LocationBody, Guard: ticketIDOnCreate},
					"subject":     {Location: resource.LocationBody, Guard: guard.NonEmptyString()},
					"description": {Location: resource.LocationBody, Guard: guard.NullOr(guard.String())},
					"priority":    {Location: resource.LocationBody, Guard: guard.NullOr(guard.NonEmptyString())},
					"assignedTo":  {Location: resource.LocationBody, Name: "assignedToEmployeeId", Guard: guard.NullOr(guard.PositiveNumber())},
					"additionalFields": {
						Location: resource.LocationBody,
						Spread:   true,
						Guard:    guard.NullOr(guard.JSONObject()),
					},
				},
			},
			"updateTicket": {
				Method: "PUT",
				Path:   "tickets/{ticketId}",
				Fields: map[string]resource.Field{
					"ticketId":    {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
					"subject":     {Location: resource.LocationBody, Guard: guard.NullOr(guard.NonEmptyString())},
					"description": {Location: resource.LocationBody, Guard: guard.NullOr(guard.String())},
					"priority":    {Location: resource.LocationBody, Guard: guard.NullOr(guard.NonEmptyString())},
					"updateFields": {
						Location: resource.LocationBody,
						Spread:   true,
						Guard:    guard.NullOr(guard.JSONObject()),
					},
				},
			},
			"deleteTicket": {
				Method: "DELETE",
				Path:   "tickets/{ticketId}",
				Fields: map[string]resource.Field{
					"ticketId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
			"mergeTickets": {
				Method: "POST",
				Path:   "tickets/{ticketId}/merge/{targetTicketId}",
				Fields: map[string]resource.Field{
					"ticketId":       {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
					"targetTicketId": {Location: resource.LocationPath, Guard: guard.PositiveNumber()},
				},
			},
		},
	}
}
