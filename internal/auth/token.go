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

package auth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tombee/restop/internal/operr"
	"github.com/tombee/restop/internal/transport"
	"github.com/tombee/restop/pkg/resource"
)

const (
	// HeaderName is the API's custom authentication header. The backend
	// expects the bearer token here, not in the standard Authorization
	// header.
	HeaderName = "apiToken"

	// loginPath is the login endpoint relative to the base URL.
	loginPath = "/backend/api/v1/login"

	// wrongTokenMarker is the backend error code for a rejected TOTP
	// code. Only failures carrying this marker are retried across time
	// windows; the dispatch is deliberately substring-based because the
	// backend does not document machine-readable error codes beyond it.
	wrongTokenMarker = "LOGIN_ERROR_WRONG_LOGIN_TOKEN_CODE"

	// lockoutMarker is the backend error code for too many failed login
	// attempts. Retrying would only extend the lockout.
	lockoutMarker = "LOGIN_ERROR_TOO_MANY_FAILED_LOGINS"
)

// loginWindows are the TOTP time-skew windows tried by LoginWithRetry,
// in order: current, previous, next.
var loginWindows = [3]int{0, -1, +1}

// Session is the parsed payload of a successful login response.
type Session struct {
	// APIKey is the bearer token for subsequent calls.
	APIKey string

	// Content is the full response content record (employeeId, expire,
	// refresh, employeeType) treated as opaque payload.
	Content map[string]any
}

// ObtainToken resolves a usable bearer token from the credentials,
// constrained by the operation's key requirement. Credential problems are
// detected before any network call; for login credentials a single login
// attempt is made with the current TOTP window.
func ObtainToken(ctx context.Context, tr transport.Transport, creds *Credentials, required resource.KeyRequirement) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	switch required {
	case resource.KeySystem:
		if creds.Mode != ModeAPIToken {
			return "", operr.New(operr.TypeCredential,
				"this operation requires a pre-shared API token, but login credentials are configured")
		}
	case resource.KeyUser:
		if creds.Mode != ModeLoginTOTP {
			return "", operr.New(operr.TypeCredential,
				"this operation requires login credentials, but a pre-shared API token is configured")
		}
	}

	if creds.Mode == ModeAPIToken {
		return creds.APIToken, nil
	}

	session, err := Login(ctx, tr, creds, 0)
	if err != nil {
		return "", err
	}
	return session.APIKey, nil
}

// SetAuthHeader writes the bearer token into the request headers under
// the API's custom header name. Any existing "bearer " prefix is
// normalized so the header always carries exactly one "Bearer " prefix.
func SetAuthHeader(headers map[string]string, token string) {
	trimmed := strings.TrimSpace(token)
	if len(trimmed) >= 7 && strings.EqualFold(trimmed[:7], "bearer ") {
		trimmed = strings.TrimSpace(trimmed[7:])
	}
	headers[HeaderName] = "Bearer " + trimmed
}

// Login performs one login call against the backend, generating a TOTP
// code for the given time-skew window when a secret is configured.
func Login(ctx context.Context, tr transport.Transport, creds *Credentials, windowOffset int) (*Session, error) {
	payload := map[string]any{
		"username": creds.Username,
		"password": creds.Password,
	}
	if creds.TOTPSecret != "" {
		code, err := GenerateTOTP(creds.TOTPSecret, windowOffset)
		if err != nil {
			return nil, operr.Wrap(operr.TypeCredential, err, "cannot generate login token")
		}
		payload["token"] = code
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, operr.Wrap(operr.TypeAuth, err, "cannot encode login request")
	}

	result := tr.Perform(ctx, &transport.Request{
		Method:  "POST",
		URL:     strings.TrimSuffix(creds.BaseURL, "/") + loginPath,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})

	switch result.Status {
	case transport.StatusSuccess:
		return parseSession(result.Body)
	case transport.StatusHTTPError:
		return nil, operr.New(operr.TypeAuth, "login failed: %s", detailMessage(result.Body))
	default:
		return nil, operr.New(operr.TypeAuth, "login failed: %v", result.Body)
	}
}

// LoginWithRetry performs login with up to three attempts across TOTP
// time-skew windows. Only a rejected TOTP code is retried; a lockout
// response or any other failure aborts immediately. Exhausting all
// windows fails with the last error. Without a configured TOTP secret a
// single attempt is made, since retrying cannot change the outcome.
func LoginWithRetry(ctx context.Context, tr transport.Transport, creds *Credentials) (*Session, error) {
	if creds.TOTPSecret == "" {
		return Login(ctx, tr, creds, 0)
	}

	var lastErr error
	for _, window := range loginWindows {
		session, err := Login(ctx, tr, creds, window)
		if err == nil {
			return session, nil
		}
		lastErr = err

		msg := err.Error()
		if strings.Contains(msg, lockoutMarker) {
			return nil, operr.Wrap(operr.TypeAuth, err, "login aborted: too many failed login attempts")
		}
		if !strings.Contains(msg, wrongTokenMarker) {
			return nil, err
		}
	}
	return nil, operr.Wrap(operr.TypeAuth, lastErr, "login failed in all TOTP time windows")
}

// parseSession extracts the session from a successful login response of
// shape {content: {apiKey, ...}}.
func parseSession(body any) (*Session, error) {
	root, ok := body.(map[string]any)
	if !ok {
		return nil, operr.New(operr.TypeAuth, "unexpected login response shape")
	}
	content, ok := root["content"].(map[string]any)
	if !ok {
		return nil, operr.New(operr.TypeAuth, "unexpected login response shape")
	}
	apiKey, ok := content["apiKey"].(string)
	if !ok || apiKey == "" {
		return nil, operr.New(operr.TypeAuth, "login response is missing the API key")
	}
	return &Session{APIKey: apiKey, Content: content}, nil
}

// detailMessage extracts content.detailMessage from a login error
// response, falling back to a generic message.
func detailMessage(body any) string {
	if root, ok := body.(map[string]any); ok {
		if content, ok := root["content"].(map[string]any); ok {
			if detail, ok := content["detailMessage"].(string); ok && detail != "" {
				return detail
			}
		}
	}
	return "the login request was rejected"
}
