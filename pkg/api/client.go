package api

//go:generate mockery -name Client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/stowage-dev/stowage/pkg/config"
	"github.com/stowage-dev/stowage/pkg/errors"
)

// requestIDHeader carries the client-generated trace ID. The service echoes
// it back in error bodies so that failures can be escalated to support.
const requestIDHeader = "X-Request-Id"

// Client is used for communicating with the Stowage service.
type Client interface {
	CreateContext(name string) (Context, error)
	GetContext(name string, createMissing bool) (Context, error)
	ListContexts(nameFilter string) ([]Context, error)
	UpdateContext(context Context) error
	DeleteContext(id string) error
	ClearContext(id string) (ClearTask, error)
	GetClearStatus(taskID string) (ClearTask, error)
	CreateSession(req CreateSessionRequest) (SessionInfo, error)
	ReleaseSession(sessionID string, syncFirst bool) error
	RequestSync(sessionID string) error
	GetSyncStatus(sessionID string) (SyncStatus, error)
	GetServiceVersion() (ServiceVersion, error)
}

type httpClient struct {
	endpoint string
	token    string
	http     *http.Client
}

// New creates a client connected to the Stowage service configured in the
// user config.
func New(cfg config.User) Client {
	return &httpClient{
		endpoint: cfg.Endpoint,
		token:    cfg.AccessToken,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// errorResponse is the body the service returns for non-2xx responses.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

func (c *httpClient) do(method, path string, query url.Values,
	body, result interface{}) error {

	reqURL := c.endpoint + path
	if len(query) != 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return errors.WithContext(err, "marshal request")
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, reqURL, bodyReader)
	if err != nil {
		return errors.WithContext(err, "create request")
	}

	requestID := uuid.New().String()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.WithFields(log.Fields{
		"method":    method,
		"path":      path,
		"requestID": requestID,
	}).Debug("Stowage API request")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WithContext(err, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	respBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.WithContext(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errors.APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			RequestID:  requestID,
		}

		var errResp errorResponse
		if err := json.Unmarshal(respBytes, &errResp); err == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			if errResp.RequestID != "" {
				apiErr.RequestID = errResp.RequestID
			}
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBytes, result); err != nil {
			return errors.WithContext(err, "unmarshal response")
		}
	}
	return nil
}

func (c *httpClient) CreateContext(name string) (Context, error) {
	var context Context
	body := map[string]string{"name": name}
	err := c.do(http.MethodPost, "/v1/contexts", nil, body, &context)
	return context, err
}

// GetContext looks up a context by name. With createMissing set, the service
// creates the context if it doesn't exist yet; the lookup-or-create is a
// single request, so retries re-issue it verbatim and always resolve to the
// same context ID.
func (c *httpClient) GetContext(name string, createMissing bool) (Context, error) {
	var context Context
	query := url.Values{
		"name":   []string{name},
		"create": []string{strconv.FormatBool(createMissing)},
	}
	err := c.do(http.MethodGet, "/v1/contexts/lookup", query, nil, &context)
	return context, err
}

func (c *httpClient) ListContexts(nameFilter string) ([]Context, error) {
	var contexts []Context
	var query url.Values
	if nameFilter != "" {
		query = url.Values{"filter": []string{nameFilter}}
	}
	err := c.do(http.MethodGet, "/v1/contexts", query, nil, &contexts)
	return contexts, err
}

func (c *httpClient) UpdateContext(context Context) error {
	return c.do(http.MethodPut, "/v1/contexts/"+context.ID, nil, context, nil)
}

func (c *httpClient) DeleteContext(id string) error {
	return c.do(http.MethodDelete, "/v1/contexts/"+id, nil, nil, nil)
}

func (c *httpClient) ClearContext(id string) (ClearTask, error) {
	var task ClearTask
	err := c.do(http.MethodPost, "/v1/contexts/"+id+"/clear", nil, nil, &task)
	return task, err
}

func (c *httpClient) GetClearStatus(taskID string) (ClearTask, error) {
	var task ClearTask
	err := c.do(http.MethodGet, "/v1/clear-tasks/"+taskID, nil, nil, &task)
	return task, err
}

func (c *httpClient) CreateSession(req CreateSessionRequest) (SessionInfo, error) {
	var info SessionInfo
	err := c.do(http.MethodPost, "/v1/sessions", nil, req, &info)
	return info, err
}

func (c *httpClient) ReleaseSession(sessionID string, syncFirst bool) error {
	query := url.Values{"syncFirst": []string{strconv.FormatBool(syncFirst)}}
	return c.do(http.MethodDelete, "/v1/sessions/"+sessionID, query, nil, nil)
}

// RequestSync triggers an upload of the session's mounts. It's idempotent:
// re-requesting sync on an already-synced mount is a no-op success.
func (c *httpClient) RequestSync(sessionID string) error {
	return c.do(http.MethodPost, "/v1/sessions/"+sessionID+"/sync", nil, nil, nil)
}

func (c *httpClient) GetSyncStatus(sessionID string) (SyncStatus, error) {
	var status SyncStatus
	err := c.do(http.MethodGet, "/v1/sessions/"+sessionID+"/sync-status",
		nil, nil, &status)
	return status, err
}

func (c *httpClient) GetServiceVersion() (ServiceVersion, error) {
	var version ServiceVersion
	err := c.do(http.MethodGet, "/v1/version", nil, nil, &version)
	return version, err
}
