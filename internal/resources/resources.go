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

// Package resources carries the declarative operation configurations of
// the supported API resources. The configurations are mechanical data
// interpreted by the crud engine; the session resource additionally
// provides its own login handler with TOTP window retry.
package resources

import (
	"context"

	"github.com/tombee/restop/internal/crud"
)

// operationParameter is the raw-parameter key selecting the operation,
// shared by every resource config and the session handler.
const operationParameter = "operation"

// Handler executes operations for one resource.
type Handler interface {
	// Resource returns the resource name.
	Resource() string

	// Handle executes the configured operation for one input item.
	Handle(ctx context.Context, itemIndex int) (*crud.Envelope, error)
}

// Quirks toggles deviations from the documented API surface. Threaded
// explicitly through construction rather than read from ambient state.
type Quirks struct {
	// RequireIDOnCreate keeps the ticket ID field on creation. The API
	// documentation requires it, but the backend assigns IDs itself and
	// rejects requests carrying one, so the default is to discard it.
	RequireIDOnCreate bool
}

// All builds handlers for every supported resource.
func All(deps crud.Deps, quirks Quirks) ([]Handler, error) {
	configs := map[string]func() (*crud.Handler, error){
		"tickets":     func() (*crud.Handler, error) { return crud.NewHandler("tickets", Tickets(quirks), deps) },
		"employees":   func() (*crud.Handler, error) { return crud.NewHandler("employees", Employees(), deps) },
		"absences":    func() (*crud.Handler, error) { return crud.NewHandler("absences", Absences(), deps) },
		"calls":       func() (*crud.Handler, error) { return crud.NewHandler("calls", Calls(), deps) },
		"attachments": func() (*crud.Handler, error) { return crud.NewHandler("attachments", Attachments(), deps) },
		"changelog":   func() (*crud.Handler, error) { return crud.NewHandler("changelog", Changelog(), deps) },
	}

	handlers := make([]Handler, 0, len(configs)+1)
	for _, build := range configs {
		h, err := build()
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}
	handlers = append(handlers, NewSessionHandler(deps))
	return handlers, nil
}
