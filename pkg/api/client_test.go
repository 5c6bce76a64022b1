package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stowage-dev/stowage/pkg/config"
	"github.com/stowage-dev/stowage/pkg/errors"
)

func newTestClient(handler http.HandlerFunc) (Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := New(config.User{
		Endpoint:    server.URL,
		AccessToken: "test-token",
	})
	return client, server
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(requestIDHeader)
		json.NewEncoder(w).Encode(Context{ID: "ctx-1", Name: "data"})
	})
	defer server.Close()

	_, err := client.CreateContext("data")
	assert.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestGetContextQuery(t *testing.T) {
	var gotName, gotCreate string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/contexts/lookup", r.URL.Path)
		gotName = r.URL.Query().Get("name")
		gotCreate = r.URL.Query().Get("create")
		json.NewEncoder(w).Encode(Context{ID: "ctx-1", Name: "data"})
	})
	defer server.Close()

	context, err := client.GetContext("data", true)
	assert.NoError(t, err)
	assert.Equal(t, "ctx-1", context.ID)
	assert.Equal(t, "data", gotName)
	assert.Equal(t, "true", gotCreate)
}

func TestAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{
			Error:     "context is in use",
			RequestID: "req-42",
		})
	})
	defer server.Close()

	err := client.DeleteContext("ctx-1")
	assert.Error(t, err)

	apiErr, ok := errors.RootCause(err).(errors.APIError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "context is in use", apiErr.Message)
	assert.Equal(t, "req-42", apiErr.RequestID)
}

func TestAPIErrorWithoutBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	err := client.RequestSync("sess-1")
	apiErr, ok := errors.RootCause(err).(errors.APIError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)

	// The client-generated request ID is still reported so that the failure
	// can be traced.
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestGetSyncStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions/sess-1/sync-status", r.URL.Path)
		json.NewEncoder(w).Encode(SyncStatus{
			RequestID: "req-7",
			Records: []SyncStatusRecord{
				{ContextID: "ctx-1", Path: "/data", Status: SyncRunning, TaskType: TaskUpload},
			},
		})
	})
	defer server.Close()

	status, err := client.GetSyncStatus("sess-1")
	assert.NoError(t, err)
	assert.Equal(t, "req-7", status.RequestID)
	assert.Len(t, status.Records, 1)
	assert.False(t, status.Records[0].Status.Terminal())
}
