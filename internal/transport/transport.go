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

// Package transport performs outbound HTTP calls and classifies their
// outcome as data instead of errors.
//
// Perform never returns a Go error for ordinary HTTP failures: a 4xx or
// 5xx response is a Result with StatusHTTPError carrying the response
// status, body, and headers; only transport-level failures (DNS, TLS,
// timeout, refused connection) produce StatusNetworkError with status
// code 0 and the error text as body. Callers branch on Result.Status and
// never need recover-style handling for API error responses.
package transport

import (
	"context"
	"net/http"
)

// Status classifies the outcome of an outbound call.
type Status int

const (
	// StatusSuccess indicates transport-level completion with a
	// non-error HTTP status.
	StatusSuccess Status = iota

	// StatusHTTPError indicates the server answered with an error status.
	// The response status, body, and headers are preserved.
	StatusHTTPError

	// StatusNetworkError indicates the call never completed at the
	// transport level. StatusCode is 0 and Body holds the error text.
	StatusNetworkError
)

// String returns the status name for diagnostics.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusHTTPError:
		return "http_error"
	case StatusNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Request is an assembled outbound call.
type Request struct {
	// Method is the HTTP method.
	Method string

	// URL is the full request URL including query string.
	URL string

	// Headers are request headers.
	Headers map[string]string

	// Body is the serialized request body, nil when the request has none.
	Body []byte
}

// Result is the tri-state outcome of one outbound call. It is created
// once per call and consumed immediately; it is never persisted.
type Result struct {
	// Status classifies the outcome.
	Status Status

	// StatusCode is the HTTP status code, 0 for network errors.
	StatusCode int

	// Body is the decoded JSON response body when the payload parses as
	// JSON, the raw string otherwise. For network errors it holds the
	// underlying error text.
	Body any

	// Headers are the response headers, nil for network errors.
	Headers http.Header
}

// Transport performs a request and classifies its outcome.
type Transport interface {
	// Perform sends the request. It always returns a Result and never an
	// error: HTTP-level failures are data, not exceptions.
	Perform(ctx context.Context, req *Request) *Result

	// Name returns the transport identifier.
	Name() string
}
