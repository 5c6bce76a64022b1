package api

import (
	"time"

	"github.com/stowage-dev/stowage/pkg/storage/policy"
)

// Context is a named durable storage unit. It isn't owned by any session;
// many sessions may mount the same context concurrently.
type Context struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	LastUsedAt time.Time `json:"lastUsedAt,omitempty"`
}

// MountSpec binds one context to one in-session path under one sync policy.
type MountSpec struct {
	ContextID string            `json:"contextId"`
	Path      string            `json:"path"`
	Policy    policy.SyncPolicy `json:"policy"`
}

// SyncTaskStatus is the state of one sync task as reported by the service.
type SyncTaskStatus string

const (
	SyncQueued  SyncTaskStatus = "Queued"
	SyncRunning SyncTaskStatus = "Running"
	SyncSuccess SyncTaskStatus = "Success"
	SyncFailed  SyncTaskStatus = "Failed"
)

// Terminal returns whether no further state transition can occur.
func (s SyncTaskStatus) Terminal() bool {
	return s == SyncSuccess || s == SyncFailed
}

// SyncTaskType distinguishes what kind of work a sync status record
// describes.
type SyncTaskType string

const (
	TaskUpload   SyncTaskType = "Upload"
	TaskDownload SyncTaskType = "Download"
	TaskClear    SyncTaskType = "Clear"
)

// SyncStatusRecord is the status of the most recent sync operation for one
// mount. The service overwrites it on each operation; the client never
// retains history.
type SyncStatusRecord struct {
	ContextID    string         `json:"contextId"`
	Path         string         `json:"path"`
	Status       SyncTaskStatus `json:"status"`
	TaskType     SyncTaskType   `json:"taskType"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// SyncStatus is one probe's view of every mount in a session.
type SyncStatus struct {
	RequestID string             `json:"requestId"`
	Records   []SyncStatusRecord `json:"records"`
}

// ClearTaskStatus is the state of an asynchronous context clear.
type ClearTaskStatus string

const (
	ClearPending    ClearTaskStatus = "Pending"
	ClearInProgress ClearTaskStatus = "InProgress"
	ClearSucceeded  ClearTaskStatus = "Succeeded"
	ClearFailed     ClearTaskStatus = "Failed"
)

// Terminal returns whether no further state transition can occur.
func (s ClearTaskStatus) Terminal() bool {
	return s == ClearSucceeded || s == ClearFailed
}

// ClearTask is the handle for an asynchronous context clear. It's polled by
// ID and discarded once terminal.
type ClearTask struct {
	TaskID       string          `json:"taskId"`
	Status       ClearTaskStatus `json:"status"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// CreateSessionRequest is the payload for creating a sandbox session.
type CreateSessionRequest struct {
	Name   string      `json:"name,omitempty"`
	Image  string      `json:"image,omitempty"`
	Mounts []MountSpec `json:"mounts,omitempty"`
}

// SessionInfo describes a created session.
type SessionInfo struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	RequestID string `json:"requestId,omitempty"`
}

// ServiceVersion reports the service's version and the newest released CLI.
type ServiceVersion struct {
	Version          string `json:"version"`
	LatestCLIVersion string `json:"latestCliVersion"`
}
