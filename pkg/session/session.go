package session

import (
	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/errors"
)

// Session is a handle to an ephemeral sandbox session with zero or more
// context mounts. The handle holds no durable state; everything it reports
// is a snapshot of what the service said last.
type Session struct {
	ID string

	client api.Client
}

// Attach returns a handle to an already-running session, for callers that
// created the session elsewhere (e.g. the CLI waiting on a session created
// by CI).
func Attach(client api.Client, id string) *Session {
	return &Session{ID: id, client: client}
}

// RequestSync asks the service to upload the session's mounts. It's a
// fire-and-forget trigger: completion is observed via WaitForSync.
// Re-requesting sync on an already-synced mount is a no-op success.
func (s *Session) RequestSync() error {
	if err := s.client.RequestSync(s.ID); err != nil {
		return errors.WithContext(err, "request sync")
	}
	return nil
}

// SyncStatus probes the per-mount sync status once, without polling.
func (s *Session) SyncStatus() (api.SyncStatus, error) {
	status, err := s.client.GetSyncStatus(s.ID)
	if err != nil {
		return api.SyncStatus{}, errors.WithContext(err, "get sync status")
	}
	return status, nil
}

// Release ends the session. With syncFirst set, mounts whose upload policy
// is BeforeResourceRelease are persisted before the session's resources are
// freed.
func (s *Session) Release(syncFirst bool) error {
	if err := s.client.ReleaseSession(s.ID, syncFirst); err != nil {
		return errors.WithContext(err, "release session")
	}
	return nil
}
