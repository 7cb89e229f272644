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

// Package commands implements the restop CLI.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the restop command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "restop",
		Short:         "Execute declarative operations against the backend API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("profile", "", "connection profile to use")

	root.AddCommand(newExecCommand())
	root.AddCommand(newLoginCommand())
	root.AddCommand(newResourcesCommand())
	root.AddCommand(newVersionCommand(version))

	return root
}
