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
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/restop/internal/config"
	"github.com/tombee/restop/internal/crud"
	"github.com/tombee/restop/internal/log"
	"github.com/tombee/restop/internal/resources"
	"github.com/tombee/restop/internal/transport"
)

func newExecCommand() *cobra.Command {
	var (
		params   []string
		jsonArgs string
		filePath string
		timeout  time.Duration
		legacyID bool
	)

	cmd := &cobra.Command{
		Use:   "exec <resource> <operation>",
		Short: "Execute one operation of a resource",
		Long: `Execute one operation of a resource against the configured API.

Parameters are given as --param key=value pairs; values that parse as
JSON are passed through typed, anything else is passed as a string.
Alternatively --params-json supplies all parameters as one JSON object.
For upload operations, --file attaches the given file as binary input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profileFlag, _ := cmd.Flags().GetString("profile")
			return runExec(cmd.Context(), execOptions{
				resource:  args[0],
				operation: args[1],
				profile:   profileFlag,
				params:    params,
				jsonArgs:  jsonArgs,
				filePath:  filePath,
				timeout:   timeout,
				legacyID:  legacyID,
			}, cmd)
		},
	}

	cmd.Flags().Var(&keyValueFlag{pairs: &params}, "param", "parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&jsonArgs, "params-json", "", "all parameters as one JSON object")
	cmd.Flags().StringVar(&filePath, "file", "", "file to attach as binary input for uploads")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	cmd.Flags().BoolVar(&legacyID, "require-id-on-create", false, "keep IDs on create operations the way the API documents them")

	return cmd
}

type execOptions struct {
	resource  string
	operation string
	profile   string
	params    []string
	jsonArgs  string
	filePath  string
	timeout   time.Duration
	legacyID  bool
}

func runExec(ctx context.Context, opts execOptions, cmd *cobra.Command) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	profileName, profile, err := cfg.Resolve(opts.profile)
	if err != nil {
		return err
	}

	values, err := parseParams(opts.params, opts.jsonArgs)
	if err != nil {
		return err
	}
	values["operation"] = opts.operation

	var items crud.ItemSource
	if opts.filePath != "" {
		item, err := loadFileItem(opts.filePath)
		if err != nil {
			return err
		}
		items = singleItem{item: item}
	}

	deps := crud.Deps{
		Parameters:  paramMap(values),
		Credentials: config.NewKeychainCredentials(profileName, *profile),
		Items:       items,
		Transport:   transport.NewHTTPTransport(&transport.HTTPConfig{Timeout: opts.timeout}),
		Logger:      log.New(log.FromEnv()),
	}

	handlers, err := resources.All(deps, resources.Quirks{RequireIDOnCreate: opts.legacyID})
	if err != nil {
		return err
	}

	var handler resources.Handler
	for _, h := range handlers {
		if h.Resource() == opts.resource {
			handler = h
			break
		}
	}
	if handler == nil {
		return fmt.Errorf("unknown resource %q (see 'restop resources')", opts.resource)
	}

	envelope, err := handler.Handle(ctx, 0)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !envelope.Success {
		// Non-zero exit so scripts can branch, but the envelope was
		// already printed: the API response is the interesting part.
		return fmt.Errorf("operation returned HTTP %d", envelope.StatusCode)
	}
	return nil
}

// keyValueFlag collects repeatable key=value pairs, rejecting malformed
// pairs at flag-parse time instead of mid-execution.
type keyValueFlag struct {
	pairs *[]string
}

var _ pflag.Value = (*keyValueFlag)(nil)

func (f *keyValueFlag) String() string {
	return strings.Join(*f.pairs, ",")
}

func (f *keyValueFlag) Set(value string) error {
	key, _, found := strings.Cut(value, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*f.pairs = append(*f.pairs, value)
	return nil
}

func (f *keyValueFlag) Type() string {
	return "key=value"
}

// paramMap adapts CLI flag values to the engine's parameter source.
type paramMap map[string]any

// Parameter returns the flag value or the declared default.
func (p paramMap) Parameter(name string, _ int, fallback any) any {
	if value, ok := p[name]; ok {
		return value
	}
	return fallback
}

// singleItem serves the one attachment a CLI invocation can carry.
type singleItem struct {
	item *crud.Item
}

func (s singleItem) Item(index int) (*crud.Item, error) {
	if index != 0 {
		return nil, fmt.Errorf("no input item %d", index)
	}
	return s.item, nil
}

// parseParams merges --params-json and --param flags, the latter
// winning. Values that parse as JSON are passed through typed.
func parseParams(pairs []string, jsonArgs string) (map[string]any, error) {
	values := make(map[string]any)
	if jsonArgs != "" {
		if err := json.Unmarshal([]byte(jsonArgs), &values); err != nil {
			return nil, fmt.Errorf("invalid --params-json: %w", err)
		}
	}
	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		values[key] = value
	}
	return values, nil
}

// loadFileItem reads a file into the binary input shape the engine
// expects, under the default property name "data".
func loadFileItem(path string) (*crud.Item, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	return &crud.Item{
		Binary: map[string]crud.Attachment{
			"data": {
				Data:     base64.StdEncoding.EncodeToString(payload),
				FileName: filepath.Base(path),
				MimeType: mimeType,
			},
		},
	}, nil
}
