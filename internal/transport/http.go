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

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"
)

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// Timeout is the per-request timeout. Zero means no client-side
	// timeout; the caller's context still applies.
	Timeout time.Duration

	// TLSInsecure disables TLS certificate validation.
	// Only for development and testing.
	TLSInsecure bool
}

// HTTPTransport is the production Transport backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates an HTTP transport with pooled connections.
func NewHTTPTransport(cfg *HTTPConfig) *HTTPTransport {
	if cfg == nil {
		cfg = &HTTPConfig{}
	}

	return &HTTPTransport{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.TLSInsecure,
				},
			},
		},
	}
}

// Name returns "http".
func (t *HTTPTransport) Name() string {
	return "http"
}

// Perform sends the request and classifies the outcome.
func (t *HTTPTransport) Perform(ctx context.Context, req *Request) *Result {
	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return networkFailure(err)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return networkFailure(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkFailure(err)
	}

	status := StatusSuccess
	if resp.StatusCode >= 400 {
		status = StatusHTTPError
	}
	return &Result{
		Status:     status,
		StatusCode: resp.StatusCode,
		Body:       decodeBody(payload),
		Headers:    resp.Header,
	}
}

func networkFailure(err error) *Result {
	return &Result{
		Status:     StatusNetworkError,
		StatusCode: 0,
		Body:       err.Error(),
	}
}

// decodeBody parses the payload as JSON when possible, otherwise returns
// the raw string. The response body is an opaque payload to this layer;
// no schema validation is applied.
func decodeBody(payload []byte) any {
	if len(payload) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return string(payload)
	}
	return decoded
}
