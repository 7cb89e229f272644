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

// Package config loads CLI profiles. Profiles carry the non-secret
// connection settings; secrets live in the system keychain.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is one named API connection.
type Profile struct {
	// BaseURL is the API base URL.
	BaseURL string `yaml:"base_url"`

	// Authentication selects the credential mode: "apiToken" or
	// "loginTotp".
	Authentication string `yaml:"authentication"`

	// Username is the login user for loginTotp profiles.
	Username string `yaml:"username,omitempty"`

	// UseTOTP marks loginTotp profiles that carry a TOTP secret in the
	// keychain.
	UseTOTP bool `yaml:"use_totp,omitempty"`
}

// Config is the persisted CLI configuration.
type Config struct {
	// DefaultProfile is used when no --profile flag is given.
	DefaultProfile string `yaml:"default_profile,omitempty"`

	// Profiles maps profile names to their settings.
	Profiles map[string]Profile `yaml:"profiles"`
}

// Dir returns the XDG config directory, creating it if needed.
// Respects XDG_CONFIG_HOME; defaults to ~/.config/restop.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}

	dir := filepath.Join(base, "restop")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from the given path. A missing file
// yields an empty configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Profiles: map[string]Profile{}}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return &cfg, nil
}

// Save writes the configuration to the given path with owner-only
// permissions.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve returns the named profile, falling back to the default.
func (c *Config) Resolve(name string) (string, *Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return "", nil, fmt.Errorf("no profile selected and no default profile configured")
	}
	profile, ok := c.Profiles[name]
	if !ok {
		return "", nil, fmt.Errorf("profile %q not found", name)
	}
	return name, &profile, nil
}
