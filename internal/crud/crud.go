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

// Package crud interprets declarative resource configurations into
// outbound HTTP calls.
//
// The handler is a data-driven interpreter: per input item it reads the
// operation name, validates every declared field through its guard,
// partitions the values into path, query, and body, substitutes path
// placeholders, acquires a bearer token, dispatches through the safe
// transport, and maps the tri-state result into a uniform envelope.
// Configuration, validation, and credential errors surface before any
// I/O; HTTP error responses are data, not errors; only network-level
// failures of the main call surface as errors.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tombee/restop/internal/auth"
	"github.com/tombee/restop/internal/operr"
	"github.com/tombee/restop/internal/transport"
	"github.com/tombee/restop/pkg/guard"
	"github.com/tombee/restop/pkg/resource"
)

// DefaultBasePath is the API root prefix used when an operation does not
// override it.
const DefaultBasePath = "/backend/api/v1"

// ParameterSource supplies raw user-entered parameter values.
// Implemented by the host runtime.
type ParameterSource interface {
	// Parameter returns the raw value for the named parameter of the
	// given input item, or fallback when the parameter is unset.
	Parameter(name string, itemIndex int, fallback any) any
}

// CredentialSource supplies the credential object for a call.
// Implemented by the host runtime; the engine never stores the result.
type CredentialSource interface {
	Credentials(ctx context.Context) (*auth.Credentials, error)
}

// Attachment is one named binary payload of an input item.
type Attachment struct {
	// Data is the base64-encoded payload.
	Data string

	// FileName is the original file name, may be empty.
	FileName string

	// MimeType is the payload media type, may be empty.
	MimeType string
}

// Item is one workflow input item as far as the engine needs it.
type Item struct {
	// Binary maps attachment property names to payloads.
	Binary map[string]Attachment
}

// ItemSource supplies input items for body strategies that need binary
// attachments. Implemented by the host runtime.
type ItemSource interface {
	Item(index int) (*Item, error)
}

// Deps are the host collaborators a handler is wired with.
type Deps struct {
	Parameters  ParameterSource
	Credentials CredentialSource

	// Items is only required for resources with multipart operations.
	Items ItemSource

	Transport transport.Transport

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Handler executes the operations of one resource configuration.
// Handlers are immutable after construction and safe for concurrent use
// across input items.
type Handler struct {
	resource string
	cfg      *resource.Config
	deps     Deps
	log      *slog.Logger
}

// NewHandler validates the static configuration and builds a handler.
func NewHandler(resourceName string, cfg *resource.Config, deps Deps) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, operr.Wrap(operr.TypeConfiguration, err, "invalid configuration for resource %q", resourceName)
	}
	if deps.Parameters == nil {
		return nil, operr.New(operr.TypeConfiguration, "resource %q: parameter source is required", resourceName)
	}
	if deps.Credentials == nil {
		return nil, operr.New(operr.TypeConfiguration, "resource %q: credential source is required", resourceName)
	}
	if deps.Transport == nil {
		return nil, operr.New(operr.TypeConfiguration, "resource %q: transport is required", resourceName)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		resource: resourceName,
		cfg:      cfg,
		deps:     deps,
		log:      logger.With("resource", resourceName),
	}, nil
}

// Resource returns the resource name this handler serves.
func (h *Handler) Resource() string {
	return h.resource
}

// Handle executes the configured operation for one input item.
//
// HTTP error responses from the API are returned as an unsuccessful
// envelope, not as an error: workflows routinely branch on API error
// responses. Network-level failures, configuration, validation, and
// credential problems are returned as errors.
func (h *Handler) Handle(ctx context.Context, itemIndex int) (*Envelope, error) {
	started := time.Now()
	correlationID := uuid.NewString()

	envelope, err := h.handle(ctx, itemIndex, correlationID)

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		var classified *operr.Error
		if errors.As(err, &classified) {
			recordError(h.resource, string(classified.Type))
		} else {
			recordError(h.resource, string(operr.TypeValidation))
		}
	case !envelope.Success:
		outcome = "http_error"
	}
	recordRequest(h.resource, outcome, time.Since(started))
	return envelope, err
}

func (h *Handler) handle(ctx context.Context, itemIndex int, correlationID string) (*Envelope, error) {
	op, opName, err := h.resolveOperation(itemIndex)
	if err != nil {
		return nil, err
	}

	queryRecord, err := h.extractRecord(op, resource.LocationQuery, itemIndex)
	if err != nil {
		return nil, itemized(err, itemIndex)
	}
	pathValues, err := h.extractPathValues(op, itemIndex)
	if err != nil {
		return nil, itemized(err, itemIndex)
	}

	subPath := substitutePath(op.Path, pathValues)
	if subPath == "" || op.Method == "" {
		return nil, operr.New(operr.TypeConfiguration,
			"operation %q of resource %q has no usable method or path", opName, h.resource)
	}

	// The body is assembled before credentials are touched: validation
	// failures, including a missing multipart attachment, must surface
	// before any I/O, and login-mode token acquisition performs I/O.
	payload, err := h.buildBody(op, itemIndex)
	if err != nil {
		return nil, itemized(err, itemIndex)
	}

	creds, err := h.deps.Credentials.Credentials(ctx)
	if err != nil {
		return nil, operr.Wrap(operr.TypeCredential, err, "cannot load credentials")
	}
	if creds == nil {
		return nil, operr.New(operr.TypeCredential, "no credentials configured")
	}

	requestURL, err := composeURL(creds.BaseURL, op.BasePath, subPath, queryRecord)
	if err != nil {
		return nil, operr.Wrap(operr.TypeConfiguration, err, "cannot compose request URL for operation %q", opName)
	}

	token, err := auth.ObtainToken(ctx, h.deps.Transport, creds, h.cfg.Credential)
	if err != nil {
		return nil, itemized(err, itemIndex)
	}

	headers := make(map[string]string)
	var body []byte
	if payload != nil {
		body = payload.data
		for k, v := range payload.headers {
			headers[k] = v
		}
	}
	auth.SetAuthHeader(headers, token)

	h.log.DebugContext(ctx, "dispatching operation",
		"operation", opName,
		"method", op.Method,
		"url", requestURL,
		"item", itemIndex,
		"correlation_id", correlationID)

	result := h.deps.Transport.Perform(ctx, &transport.Request{
		Method:  op.Method,
		URL:     requestURL,
		Headers: headers,
		Body:    body,
	})

	switch result.Status {
	case transport.StatusSuccess:
		return successEnvelope(result), nil
	case transport.StatusHTTPError:
		return httpErrorEnvelope(result), nil
	default:
		return nil, operr.New(operr.TypeConnection,
			"operation %q failed at the network level: %v", opName, result.Body).WithItem(itemIndex)
	}
}

// resolveOperation reads and validates the operation name, then looks up
// its definition.
func (h *Handler) resolveOperation(itemIndex int) (*resource.Operation, string, error) {
	raw := h.deps.Parameters.Parameter(h.cfg.OperationParameter, itemIndex, nil)
	checked, err := guard.NonEmptyString()(raw, h.cfg.OperationParameter)
	if err != nil {
		return nil, "", classifyGuardError(err).WithItem(itemIndex)
	}
	opName := checked.(string)

	op, ok := h.cfg.Operations[opName]
	if !ok {
		return nil, "", operr.New(operr.TypeConfiguration,
			"operation %q is not recognized for resource %q", opName, h.resource).WithItem(itemIndex)
	}
	return &op, opName, nil
}

// extractRecord builds the record of guarded values for one location.
// Fields whose guard omits the value are left out. A spread field whose
// guard yields an object merges into the record; a spread field yielding
// a list replaces the record outright, and a second list-producing spread
// field is rejected since its merge order would be undefined.
func (h *Handler) extractRecord(op *resource.Operation, loc resource.Location, itemIndex int) (any, error) {
	record := make(map[string]any)
	var replacement any

	for key, f := range op.Fields {
		if f.Location != loc {
			continue
		}
		raw := h.deps.Parameters.Parameter(key, itemIndex, f.Default)
		checked, err := f.Guard(raw, key)
		if err != nil {
			return nil, classifyGuardError(err)
		}
		if checked == nil {
			continue
		}
		if f.Spread {
			switch v := checked.(type) {
			case []any:
				if replacement != nil {
					return nil, operr.New(operr.TypeConfiguration,
						"operation declares more than one list-producing spread field")
				}
				replacement = v
			case map[string]any:
				for k, sv := range v {
					if _, exists := record[k]; !exists {
						record[k] = sv
					}
				}
			default:
				return nil, operr.New(operr.TypeValidation,
					"spread field %q must produce an object or a list, got %T", key, checked)
			}
			continue
		}
		name := key
		if f.Name != "" {
			name = f.Name
		}
		record[name] = checked
	}

	if replacement != nil {
		return replacement, nil
	}
	return record, nil
}

// extractPathValues guards the path-located fields, recording each value
// under both its key and its rename so either placeholder spelling
// substitutes.
func (h *Handler) extractPathValues(op *resource.Operation, itemIndex int) (map[string]string, error) {
	values := make(map[string]string)
	for key, f := range op.Fields {
		if f.Location != resource.LocationPath {
			continue
		}
		raw := h.deps.Parameters.Parameter(key, itemIndex, f.Default)
		checked, err := f.Guard(raw, key)
		if err != nil {
			return nil, classifyGuardError(err)
		}
		if checked == nil {
			continue
		}
		s := stringify(checked)
		values[key] = s
		if f.Name != "" {
			values[f.Name] = s
		}
	}
	return values, nil
}

// substitutePath replaces every {name} occurrence with the URL-encoded
// path value.
func substitutePath(template string, values map[string]string) string {
	path := template
	for name, value := range values {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	return path
}

// composeURL joins base URL, base path, and sub path with single slashes
// and appends the query string built from the query record.
func composeURL(baseURL, basePath, subPath string, queryRecord any) (string, error) {
	if basePath == "" {
		basePath = DefaultBasePath
	}

	segments := []string{
		strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		strings.Trim(basePath, "/"),
		strings.Trim(subPath, "/"),
	}
	full := segments[0]
	for _, seg := range segments[1:] {
		if seg != "" {
			full += "/" + seg
		}
	}

	query, ok := queryRecord.(map[string]any)
	if !ok {
		return "", fmt.Errorf("query record must be an object, got %T", queryRecord)
	}
	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, stringify(value))
		}
		full += "?" + values.Encode()
	}
	return full, nil
}

// stringify renders a guarded value for path or query placement. Lists
// are joined with commas the way the API expects repeated values.
func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []string:
		return strings.Join(value, ",")
	case []any:
		parts := make([]string, len(value))
		for i, item := range value {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", value)
	}
}

// classifyGuardError maps guard rejections into the engine taxonomy,
// passing through already-classified errors.
func classifyGuardError(err error) *operr.Error {
	var classified *operr.Error
	if errors.As(err, &classified) {
		return classified
	}
	var rejected *guard.ValidationError
	if errors.As(err, &rejected) {
		return operr.Wrap(operr.TypeValidation, err, "%s", rejected.Error())
	}
	return operr.Wrap(operr.TypeValidation, err, "parameter validation failed")
}

// itemized attaches the item index to classified errors.
func itemized(err error, itemIndex int) error {
	var classified *operr.Error
	if errors.As(err, &classified) && classified.ItemIndex < 0 {
		return classified.WithItem(itemIndex)
	}
	return err
}
