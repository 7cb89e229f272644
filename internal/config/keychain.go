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

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/tombee/restop/internal/auth"
)

// keychainService is the service name used for keychain entries.
const keychainService = "restop"

// Secret keys stored per profile in the system keychain.
const (
	SecretAPIToken   = "api_token"
	SecretPassword   = "password"
	SecretTOTPSecret = "totp_secret"
)

func keychainKey(profile, secret string) string {
	return profile + "/" + secret
}

// StoreSecret writes one profile secret to the system keychain.
func StoreSecret(profile, secret, value string) error {
	if err := keyring.Set(keychainService, keychainKey(profile, secret), value); err != nil {
		return fmt.Errorf("storing %s for profile %q: %w", secret, profile, err)
	}
	return nil
}

// DeleteSecrets removes all secrets of a profile. Missing entries are
// not an error.
func DeleteSecrets(profile string) error {
	for _, secret := range []string{SecretAPIToken, SecretPassword, SecretTOTPSecret} {
		err := keyring.Delete(keychainService, keychainKey(profile, secret))
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("deleting %s for profile %q: %w", secret, profile, err)
		}
	}
	return nil
}

func loadSecret(profile, secret string) (string, error) {
	value, err := keyring.Get(keychainService, keychainKey(profile, secret))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("loading %s for profile %q: %w", secret, profile, err)
	}
	return value, nil
}

// KeychainCredentials resolves engine credentials from a profile plus
// the system keychain.
type KeychainCredentials struct {
	name    string
	profile Profile
}

// NewKeychainCredentials builds a credential source for the profile.
func NewKeychainCredentials(name string, profile Profile) *KeychainCredentials {
	return &KeychainCredentials{name: name, profile: profile}
}

// Credentials assembles the credential object for one call.
func (k *KeychainCredentials) Credentials(ctx context.Context) (*auth.Credentials, error) {
	creds := &auth.Credentials{
		Mode:    auth.Mode(k.profile.Authentication),
		BaseURL: k.profile.BaseURL,
	}

	switch creds.Mode {
	case auth.ModeAPIToken:
		token, err := loadSecret(k.name, SecretAPIToken)
		if err != nil {
			return nil, err
		}
		creds.APIToken = token
	case auth.ModeLoginTOTP:
		password, err := loadSecret(k.name, SecretPassword)
		if err != nil {
			return nil, err
		}
		creds.Username = k.profile.Username
		creds.Password = password
		if k.profile.UseTOTP {
			secret, err := loadSecret(k.name, SecretTOTPSecret)
			if err != nil {
				return nil, err
			}
			creds.TOTPSecret = secret
		}
	default:
		return nil, fmt.Errorf("profile %q has unknown authentication mode %q", k.name, k.profile.Authentication)
	}

	return creds, nil
}
