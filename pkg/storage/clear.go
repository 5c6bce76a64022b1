package storage

import (
	"context"

	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/poll"
)

// ClearAsync fires a clear request for the context's persisted data and
// returns the task handle immediately without waiting for it to run.
func (r Registry) ClearAsync(c api.Context) (api.ClearTask, error) {
	if c.ID == "" {
		return api.ClearTask{}, errors.NewValidationError("context ID is required")
	}

	task, err := r.client.ClearContext(c.ID)
	if err != nil {
		return api.ClearTask{}, errors.WithContext(err, "request clear")
	}
	return task, nil
}

// ClearStatus probes a clear task's status once, without polling. A Pending
// result doesn't mean nothing happened — the task may simply not have been
// scheduled yet.
func (r Registry) ClearStatus(taskID string) (api.ClearTask, error) {
	task, err := r.client.GetClearStatus(taskID)
	if err != nil {
		return api.ClearTask{}, errors.WithContext(err, "get clear status")
	}
	return task, nil
}

// Clear wipes the context's persisted data and waits for the server-side
// clear task to reach a terminal state. If the task doesn't finish before
// the timeout, a ClearanceTimeoutError is returned: the clear may still be
// running server-side.
//
// Concurrent Clear calls on the same context have undefined server-side
// interleaving; the client doesn't attempt to serialize them.
func (r Registry) Clear(ctx context.Context, c api.Context, opts poll.Options) error {
	task, err := r.ClearAsync(c)
	if err != nil {
		return err
	}

	var last api.ClearTask
	err = poll.Until(ctx, opts, func() (bool, error) {
		probed, err := r.client.GetClearStatus(task.TaskID)
		if err != nil {
			return false, err
		}
		last = probed
		return probed.Status.Terminal(), nil
	})

	switch {
	case err == poll.ErrTimeout:
		return errors.ClearanceTimeoutError{
			ContextID: c.ID,
			TaskID:    task.TaskID,
			Timeout:   opts.Timeout,
		}
	case err != nil:
		return err
	}

	if last.Status == api.ClearFailed {
		// Surface the server's failure reason verbatim.
		return errors.WithContext(errors.New(last.ErrorMessage), "clear failed")
	}
	return nil
}
