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

package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/tombee/restop/internal/auth"
	"github.com/tombee/restop/internal/config"
)

func newLoginCommand() *cobra.Command {
	var setDefault bool

	cmd := &cobra.Command{
		Use:   "login <profile>",
		Short: "Create or update a connection profile",
		Long: `Create or update a connection profile interactively.

Connection settings are stored in the config file; the API token,
password, and TOTP secret go into the system keychain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(args[0], setDefault)
		},
	}

	cmd.Flags().BoolVar(&setDefault, "default", false, "make this the default profile")
	return cmd
}

func runLogin(name string, setDefault bool) error {
	var answers struct {
		BaseURL string
		Mode    string
	}
	questions := []*survey.Question{
		{
			Name:     "baseURL",
			Prompt:   &survey.Input{Message: "Base URL of the API:"},
			Validate: survey.Required,
		},
		{
			Name: "mode",
			Prompt: &survey.Select{
				Message: "Authentication mode:",
				Options: []string{string(auth.ModeAPIToken), string(auth.ModeLoginTOTP)},
				Default: string(auth.ModeAPIToken),
			},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	profile := config.Profile{
		BaseURL:        answers.BaseURL,
		Authentication: answers.Mode,
	}

	switch auth.Mode(answers.Mode) {
	case auth.ModeAPIToken:
		var token string
		if err := survey.AskOne(&survey.Password{Message: "API token:"}, &token, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		if err := config.StoreSecret(name, config.SecretAPIToken, token); err != nil {
			return err
		}

	case auth.ModeLoginTOTP:
		var login struct {
			Username string
			Password string
			TOTP     string
		}
		if err := survey.Ask([]*survey.Question{
			{Name: "username", Prompt: &survey.Input{Message: "Username:"}, Validate: survey.Required},
			{Name: "password", Prompt: &survey.Password{Message: "Password:"}, Validate: survey.Required},
			{Name: "totp", Prompt: &survey.Password{Message: "TOTP secret (empty if none):"}},
		}, &login); err != nil {
			return err
		}
		profile.Username = login.Username
		profile.UseTOTP = login.TOTP != ""
		if err := config.StoreSecret(name, config.SecretPassword, login.Password); err != nil {
			return err
		}
		if login.TOTP != "" {
			if err := config.StoreSecret(name, config.SecretTOTPSecret, login.TOTP); err != nil {
				return err
			}
		}
	}

	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Profiles[name] = profile
	if setDefault || cfg.DefaultProfile == "" {
		cfg.DefaultProfile = name
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Profile %q saved.\n", name)
	return nil
}
