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

// Package auth resolves bearer tokens for API operations.
//
// Two authentication modes exist: a pre-shared API token returned
// verbatim, and username/password login optionally strengthened with a
// time-based one-time password. Tokens are resolved per call and never
// cached; login retries span adjacent TOTP time windows to tolerate
// clock skew.
package auth

import (
	"strings"

	"github.com/tombee/restop/internal/operr"
)

// Mode selects the authentication path.
type Mode string

const (
	// ModeAPIToken authenticates with a pre-shared API token.
	ModeAPIToken Mode = "apiToken"

	// ModeLoginTOTP authenticates by logging in with username/password
	// and an optional TOTP code.
	ModeLoginTOTP Mode = "loginTotp"
)

// Credentials is the host-supplied credential object. The engine never
// stores or mutates it.
type Credentials struct {
	// Mode tags which authentication fields are populated.
	Mode Mode

	// BaseURL is the API base URL. Always required.
	BaseURL string

	// APIToken is the pre-shared token for ModeAPIToken.
	APIToken string

	// Username and Password are the login credentials for ModeLoginTOTP.
	Username string
	Password string

	// TOTPSecret is the optional base32 shared secret for ModeLoginTOTP.
	TOTPSecret string
}

// Validate checks that the credential object is complete for its
// declared mode.
func (c *Credentials) Validate() error {
	if c == nil {
		return operr.New(operr.TypeCredential, "no credentials configured")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return operr.New(operr.TypeCredential, "credentials are missing the base URL")
	}
	switch c.Mode {
	case ModeAPIToken:
		if strings.TrimSpace(c.APIToken) == "" {
			return operr.New(operr.TypeCredential, "API token authentication requires a token")
		}
	case ModeLoginTOTP:
		if strings.TrimSpace(c.Username) == "" || c.Password == "" {
			return operr.New(operr.TypeCredential, "login authentication requires username and password")
		}
	default:
		return operr.New(operr.TypeCredential, "unknown authentication mode %q", string(c.Mode))
	}
	return nil
}
