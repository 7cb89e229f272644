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

package crud

import (
	"github.com/tombee/restop/internal/transport"
)

// Envelope messages. Downstream workflows match on these strings, so
// they are part of the contract.
const (
	MessageSuccess   = "Operation executed successfully"
	MessageHTTPError = "HTTP error occurred during operation"
)

// Envelope is the uniform result returned for both successful and
// HTTP-error outcomes of an operation.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Body       any    `json:"body,omitempty"`
}

func successEnvelope(result *transport.Result) *Envelope {
	return &Envelope{
		Success:    true,
		StatusCode: result.StatusCode,
		Message:    MessageSuccess,
		Body:       result.Body,
	}
}

func httpErrorEnvelope(result *transport.Result) *Envelope {
	return &Envelope{
		Success:    false,
		StatusCode: result.StatusCode,
		Message:    MessageHTTPError,
		Body:       result.Body,
	}
}
