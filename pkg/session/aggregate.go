package session

import (
	"fmt"
	"strings"

	"github.com/stowage-dev/stowage/pkg/api"
)

// SyncResult is the reduction of every mount's outcome into one verdict.
type SyncResult struct {
	// Success is true iff every mount's sync reached Success.
	Success bool

	// ErrorMessage describes every failed mount, or why the wait ended
	// early. Empty on success.
	ErrorMessage string

	// RequestID identifies the status probe the verdict is based on, for
	// support escalation.
	RequestID string

	// Canceled is set when the wait was aborted by the caller rather than
	// finishing or failing. The underlying sync may still complete
	// server-side.
	Canceled bool
}

// Aggregate reduces a set of per-mount status records into one result.
// Every failed mount's message is reported. A composite failure is never
// collapsed to its first member. An empty record set aggregates to success:
// nothing to fail.
func Aggregate(status api.SyncStatus) SyncResult {
	var failures []string
	success := true
	for _, record := range status.Records {
		if record.Status != api.SyncSuccess {
			success = false
		}
		if record.Status == api.SyncFailed {
			failures = append(failures, fmt.Sprintf(
				"%s: %s", record.Path, record.ErrorMessage))
		}
	}

	return SyncResult{
		Success:      success,
		ErrorMessage: strings.Join(failures, "; "),
		RequestID:    status.RequestID,
	}
}

func pendingPaths(records []api.SyncStatusRecord) []string {
	var pending []string
	for _, record := range records {
		if !record.Status.Terminal() {
			pending = append(pending, record.Path)
		}
	}
	return pending
}
