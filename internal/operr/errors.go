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

// Package operr classifies request-engine errors for uniform handling
// and user-facing reporting.
package operr

import (
	"fmt"
)

// ErrorType classifies engine errors.
type ErrorType string

const (
	// TypeConfiguration indicates malformed static operation config:
	// unrecognized operation name, missing method or path.
	TypeConfiguration ErrorType = "configuration_error"

	// TypeValidation indicates a field guard rejected its input.
	TypeValidation ErrorType = "validation_error"

	// TypeCredential indicates missing or malformed credentials, or the
	// wrong key type for the requested operation. Detected before any
	// network call.
	TypeCredential ErrorType = "credential_error"

	// TypeAuth indicates the login call itself failed.
	TypeAuth ErrorType = "auth_error"

	// TypeConnection indicates a network-level failure of the main call.
	TypeConnection ErrorType = "connection_error"
)

// Error is a classified engine error with a human-readable message and,
// where applicable, the originating input item index.
type Error struct {
	// Type classifies the error.
	Type ErrorType

	// Message is the human-readable description.
	Message string

	// ItemIndex is the workflow input item the error originated from,
	// -1 when not applicable.
	ItemIndex int

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Type != "" {
		msg = fmt.Sprintf("%s (type: %s)", msg, e.Type)
	}
	if e.ItemIndex >= 0 {
		msg = fmt.Sprintf("%s [item %d]", msg, e.ItemIndex)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the message without classification noise.
func (e *Error) UserMessage() string {
	return e.Message
}

// New creates a classified error without an item index.
func New(t ErrorType, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), ItemIndex: -1}
}

// Wrap creates a classified error around a cause.
func Wrap(t ErrorType, cause error, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), ItemIndex: -1, Cause: cause}
}

// WithItem returns a copy of the error carrying the given item index.
func (e *Error) WithItem(index int) *Error {
	clone := *e
	clone.ItemIndex = index
	return &clone
}
