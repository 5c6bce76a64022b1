package session

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/poll"
)

// WaitForSync blocks until the most recent sync operation on every mount has
// reached a terminal state, then aggregates the per-mount outcomes.
//
// Expected outcomes are reported in the SyncResult, not as errors: a timeout
// or a partially-failed sync returns Success=false with a descriptive
// message and a nil error. The returned error is non-nil only for caller
// cancellation (errors.ErrCanceled) and for status probes that kept failing
// at the transport level.
func (s *Session) WaitForSync(ctx context.Context, opts poll.Options) (SyncResult, error) {
	var last api.SyncStatus
	err := poll.Until(ctx, opts, func() (bool, error) {
		status, err := s.client.GetSyncStatus(s.ID)
		if err != nil {
			return false, err
		}
		last = status
		return len(pendingPaths(status.Records)) == 0, nil
	})

	switch {
	case err == nil:
		return Aggregate(last), nil
	case err == poll.ErrTimeout:
		msg := fmt.Sprintf("sync didn't finish within %s", opts.Timeout)
		if pending := pendingPaths(last.Records); len(pending) != 0 {
			msg += fmt.Sprintf(" (still pending: %s)", strings.Join(pending, ", "))
		}
		return SyncResult{
			Success:      false,
			ErrorMessage: msg,
			RequestID:    last.RequestID,
		}, nil
	case errors.RootCause(err) == errors.ErrCanceled:
		return SyncResult{Canceled: true}, errors.ErrCanceled
	default:
		return SyncResult{}, errors.WithContext(err, "wait for sync")
	}
}

// WaitForSyncAsync runs the same wait on a background goroutine and returns
// a channel that receives the final result exactly once. Unlike the blocking
// variant, transport failures and cancellation are folded into the result so
// that the channel always delivers.
func (s *Session) WaitForSyncAsync(ctx context.Context, opts poll.Options) <-chan SyncResult {
	results := make(chan SyncResult, 1)
	go func() {
		results <- s.waitToResult(ctx, opts)
	}()
	return results
}

// WaitForSyncCallback runs the wait on a background goroutine and invokes
// the callback exactly once with the final result. The call itself returns
// immediately.
func (s *Session) WaitForSyncCallback(ctx context.Context, opts poll.Options,
	callback func(SyncResult)) {

	go func() {
		callback(s.waitToResult(ctx, opts))
	}()
}

// waitToResult folds the blocking wait's error return into the SyncResult,
// for the two calling conventions that can't return an error.
func (s *Session) waitToResult(ctx context.Context, opts poll.Options) SyncResult {
	result, err := s.WaitForSync(ctx, opts)
	if err == nil {
		return result
	}

	if errors.RootCause(err) == errors.ErrCanceled {
		log.WithField("session", s.ID).Debug("Sync wait canceled")
		return SyncResult{Canceled: true, ErrorMessage: err.Error()}
	}
	return SyncResult{Success: false, ErrorMessage: err.Error()}
}
