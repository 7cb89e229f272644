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
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/restop/internal/resources"
	"github.com/tombee/restop/pkg/resource"
)

func newResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List resources and their operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs := map[string]*resource.Config{
				"tickets":     resources.Tickets(resources.Quirks{}),
				"employees":   resources.Employees(),
				"absences":    resources.Absences(),
				"calls":       resources.Calls(),
				"attachments": resources.Attachments(),
				"changelog":   resources.Changelog(),
			}

			names := make([]string, 0, len(configs))
			for name := range configs {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				ops := make([]string, 0, len(configs[name].Operations))
				for op := range configs[name].Operations {
					ops = append(ops, op)
				}
				sort.Strings(ops)
				fmt.Fprintf(out, "%s: %s\n", name, strings.Join(ops, ", "))
			}
			fmt.Fprintln(out, "session: login")
			return nil
		},
	}
}
