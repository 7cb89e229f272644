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
	"context"
	"log/slog"
	"net/http"

	"github.com/tombee/restop/internal/auth"
	"github.com/tombee/restop/internal/crud"
	"github.com/tombee/restop/internal/operr"
	"github.com/tombee/restop/pkg/guard"
)

// SessionHandler serves the session resource. Its login operation goes
// through the richer login path with TOTP time-window retry instead of
// the generic token flow, and surfaces the full session content
// (apiKey, employeeId, expire, refresh, employeeType) to the caller.
type SessionHandler struct {
	deps crud.Deps
	log  *slog.Logger
}

// NewSessionHandler builds the session resource handler.
func NewSessionHandler(deps crud.Deps) *SessionHandler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{deps: deps, log: logger.With("resource", "session")}
}

// Resource returns "session".
func (h *SessionHandler) Resource() string {
	return "session"
}

// Handle executes the requested session operation.
func (h *SessionHandler) Handle(ctx context.Context, itemIndex int) (*crud.Envelope, error) {
	raw := h.deps.Parameters.Parameter(operationParameter, itemIndex, nil)
	checked, err := guard.NonEmptyString()(raw, operationParameter)
	if err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "cannot read operation name").WithItem(itemIndex)
	}
	opName := checked.(string)

	if opName != "login" {
		return nil, operr.New(operr.TypeConfiguration,
			"operation %q is not recognized for resource %q", opName, h.Resource()).WithItem(itemIndex)
	}

	creds, err := h.deps.Credentials.Credentials(ctx)
	if err != nil {
		return nil, operr.Wrap(operr.TypeCredential, err, "cannot load credentials").WithItem(itemIndex)
	}
	if creds == nil || creds.Mode != auth.ModeLoginTOTP {
		return nil, operr.New(operr.TypeCredential,
			"the login operation requires username/password credentials").WithItem(itemIndex)
	}
	if err := creds.Validate(); err != nil {
		return nil, itemizedCredential(err, itemIndex)
	}

	h.log.DebugContext(ctx, "logging in", "item", itemIndex, "totp", creds.TOTPSecret != "")

	session, err := auth.LoginWithRetry(ctx, h.deps.Transport, creds)
	if err != nil {
		return nil, itemizedCredential(err, itemIndex)
	}

	return &crud.Envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    crud.MessageSuccess,
		Body:       session.Content,
	}, nil
}

func itemizedCredential(err error, itemIndex int) error {
	if classified, ok := err.(*operr.Error); ok && classified.ItemIndex < 0 {
		return classified.WithItem(itemIndex)
	}
	return err
}
