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

package resources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/restop/internal/auth"
	"github.com/tombee/restop/internal/crud"
	"github.com/tombee/restop/internal/operr"
	"github.com/tombee/restop/internal/transport"
	"github.com/tombee/restop/pkg/resource"
)

type mockTransport struct {
	results  []*transport.Result
	requests []*transport.Request
}

func (m *mockTransport) Perform(_ context.Context, req *transport.Request) *transport.Result {
	m.requests = append(m.requests, req)
	if len(m.results) == 0 {
		return &transport.Result{Status: transport.StatusNetworkError, Body: "no canned result"}
	}
	result := m.results[0]
	m.results = m.results[1:]
	return result
}

func (m *mockTransport) Name() string { return "mock" }

type paramsFixture map[string]any

func (p paramsFixture) Parameter(name string, _ int, fallback any) any {
	if v, ok := p[name]; ok {
		return v
	}
	return fallback
}

type credsFixture struct {
	creds *auth.Credentials
}

func (c *credsFixture) Credentials(context.Context) (*auth.Credentials, error) {
	return c.creds, nil
}

func testDeps(params paramsFixture, tr transport.Transport, creds *auth.Credentials) crud.Deps {
	return crud.Deps{
		Parameters:  params,
		Credentials: &credsFixture{creds: creds},
		Transport:   tr,
	}
}

func tokenCreds() *auth.Credentials {
	return &auth.Credentials{
		Mode:     auth.ModeAPIToken,
		BaseURL:  "https://desk.example.com",
		APIToken: "abc123",
	}
}

func TestAllConfigsValidate(t *testing.T) {
	configs := map[string]*resource.Config{
		"tickets":           Tickets(Quirks{}),
		"tickets quirked":   Tickets(Quirks{RequireIDOnCreate: true}),
		"employees":         Employees(),
		"absences":          Absences(),
		"calls":             Calls(),
		"attachments":       Attachments(),
		"changelog":         Changelog(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, cfg.Validate())
			assert.Equal(t, operationParameter, cfg.OperationParameter,
				"every resource selects its operation through the shared key")
		})
	}
}

func TestAllBuildsEveryHandler(t *testing.T) {
	handlers, err := All(testDeps(paramsFixture{}, &mockTransport{}, tokenCreds()), Quirks{})
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, h := range handlers {
		names[h.Resource()] = true
	}
	for _, want := range []string{"tickets", "employees", "absences", "calls", "attachments", "changelog", "session"} {
		assert.True(t, names[want], want)
	}
}

func TestCreateTicketDiscardsIDByDefault(t *testing.T) {
	tr := &mockTransport{results: []*transport.Result{{
		Status: transport.StatusSuccess, StatusCode: 201,
	}}}
	params := paramsFixture{
		"operation": "createTicket",
		"ticketId":  7.0,
		"subject":   "printer on fire",
	}

	h, err := crud.NewHandler("tickets", Tickets(Quirks{}), testDeps(params, tr, tokenCreds()))
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), 0)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(tr.requests[0].Body, &body))
	assert.NotContains(t, body, "ticketId", "the backend assigns ticket IDs")
	assert.Equal(t, "printer on fire", body["subject"])
}

func TestCreateTicketKeepsIDWhenQuirked(t *testing.T) {
	tr := &mockTransport{results: []*transport.Result{{
		Status: transport.StatusSuccess, StatusCode: 201,
	}}}
	params := paramsFixture{
		"operation": "createTicket",
		"ticketId":  7.0,
		"subject":   "printer on fire",
	}

	h, err := crud.NewHandler("tickets", Tickets(Quirks{RequireIDOnCreate: true}), testDeps(params, tr, tokenCreds()))
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), 0)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(tr.requests[0].Body, &body))
	assert.Equal(t, 7.0, body["ticketId"])
}

func TestLogCallsProducesRecordList(t *testing.T) {
	tr := &mockTransport{results: []*transport.Result{{
		Status: transport.StatusSuccess, StatusCode: 200,
	}}}
	params := paramsFixture{
		"operation": "logCalls",
		"call": map[string]any{
			"direction":       "inbound",
			"durationSeconds": 120.0,
			"participants": []any{
				map[string]any{"number": "123"},
				map[string]any{"number": "456"},
			},
		},
	}

	h, err := crud.NewHandler("calls", Calls(), testDeps(params, tr, tokenCreds()))
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), 0)
	require.NoError(t, err)

	var body []any
	require.NoError(t, json.Unmarshal(tr.requests[0].Body, &body))
	assert.Equal(t, []any{
		map[string]any{"direction": "inbound", "duration": 120.0, "number": "123"},
		map[string]any{"direction": "inbound", "duration": 120.0, "number": "456"},
	}, body)
}

func TestChangelogUsesUnversionedBasePath(t *testing.T) {
	tr := &mockTransport{results: []*transport.Result{{
		Status: transport.StatusSuccess, StatusCode: 200,
	}}}
	params := paramsFixture{"operation": "getChangelog"}

	h, err := crud.NewHandler("changelog", Changelog(), testDeps(params, tr, tokenCreds()))
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), 0)
	require.NoError(t, err)

	assert.Contains(t, tr.requests[0].URL, "https://desk.example.com/backend/api/changelog")
	assert.NotContains(t, tr.requests[0].URL, "/v1/")
}

func TestSessionLogin(t *testing.T) {
	tr := &mockTransport{results: []*transport.Result{{
		Status:     transport.StatusSuccess,
		StatusCode: 200,
		Body: map[string]any{
			"content": map[string]any{
				"apiKey":     "session-key",
				"employeeId": 7.0,
			},
		},
	}}}
	creds := &auth.Credentials{
		Mode:     auth.ModeLoginTOTP,
		BaseURL:  "https://desk.example.com",
		Username: "agent",
		Password: "pw",
	}
	h := NewSessionHandler(testDeps(paramsFixture{"operation": "login"}, tr, creds))

	envelope, err := h.Handle(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, envelope.Success)
	assert.Equal(t, crud.MessageSuccess, envelope.Message)
	assert.Equal(t, map[string]any{"apiKey": "session-key", "employeeId": 7.0}, envelope.Body)
}

func TestSessionRejectsTokenCredentials(t *testing.T) {
	tr := &mockTransport{}
	h := NewSessionHandler(testDeps(paramsFixture{"operation": "login"}, tr, tokenCreds()))

	_, err := h.Handle(context.Background(), 3)
	require.Error(t, err)
	var opErr *operr.Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, operr.TypeCredential, opErr.Type)
	assert.Equal(t, 3, opErr.ItemIndex)
	assert.Empty(t, tr.requests)
}

func TestSessionUnknownOperation(t *testing.T) {
	h := NewSessionHandler(testDeps(paramsFixture{"operation": "logout"}, &mockTransport{}, tokenCreds()))

	_, err := h.Handle(context.Background(), 0)
	require.Error(t, err)
	var opErr *operr.Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, operr.TypeConfiguration, opErr.Type)
}
