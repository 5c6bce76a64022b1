package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/api/mocks"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/poll"
)

// statusSequence serves a fixed sequence of sync statuses, repeating the
// last one once the sequence is exhausted.
type statusSequence struct {
	mu       sync.Mutex
	probes   int
	statuses []api.SyncStatus
	errs     []error
}

func (s *statusSequence) next(string) api.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.probes
	s.probes++
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	return s.statuses[i]
}

func (s *statusSequence) nextErr(string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// next() is always invoked before nextErr() for the same probe, so the
	// matching index is probes-1.
	i := s.probes - 1
	if i >= len(s.errs) {
		i = len(s.errs) - 1
	}
	if len(s.errs) == 0 {
		return nil
	}
	return s.errs[i]
}

func (s *statusSequence) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probes
}

func newWaitingSession(seq *statusSequence) *Session {
	client := &mocks.Client{}
	client.On("GetSyncStatus", "sess-1").Return(seq.next, seq.nextErr)
	return Attach(client, "sess-1")
}

func running(path string) api.SyncStatus {
	return api.SyncStatus{
		RequestID: "req-1",
		Records: []api.SyncStatusRecord{
			{ContextID: "ctx-1", Path: path, Status: api.SyncRunning, TaskType: api.TaskUpload},
		},
	}
}

func succeeded(path string) api.SyncStatus {
	return api.SyncStatus{
		RequestID: "req-2",
		Records: []api.SyncStatusRecord{
			{ContextID: "ctx-1", Path: path, Status: api.SyncSuccess, TaskType: api.TaskUpload},
		},
	}
}

// One mount that's Running on the first two probes and Success on the third
// should produce a successful result after two sleep intervals.
func TestWaitForSyncEventuallySucceeds(t *testing.T) {
	fc := clockwork.NewFakeClock()
	seq := &statusSequence{statuses: []api.SyncStatus{
		running("/mnt/data"),
		running("/mnt/data"),
		succeeded("/mnt/data"),
	}}
	sess := newWaitingSession(seq)

	type waitReturn struct {
		result SyncResult
		err    error
	}
	done := make(chan waitReturn)
	go func() {
		result, err := sess.WaitForSync(context.Background(), poll.Options{
			Timeout:  10 * time.Second,
			Interval: 1500 * time.Millisecond,
			Clock:    fc,
		})
		done <- waitReturn{result, err}
	}()

	for i := 0; i < 2; i++ {
		fc.BlockUntil(1)
		fc.Advance(1500 * time.Millisecond)
	}

	ret := <-done
	assert.NoError(t, ret.err)
	assert.True(t, ret.result.Success)
	assert.Empty(t, ret.result.ErrorMessage)
	assert.Equal(t, "req-2", ret.result.RequestID)
	assert.Equal(t, 3, seq.count())
}

// A mount failure must be reported alongside the successful mounts, naming
// the failing path and the server's message.
func TestWaitForSyncPartialFailure(t *testing.T) {
	seq := &statusSequence{statuses: []api.SyncStatus{{
		RequestID: "req-9",
		Records: []api.SyncStatusRecord{
			{ContextID: "ctx-1", Path: "/mnt/data", Status: api.SyncSuccess},
			{ContextID: "ctx-2", Path: "/mnt/cache", Status: api.SyncFailed,
				ErrorMessage: "disk full"},
		},
	}}}
	sess := newWaitingSession(seq)

	result, err := sess.WaitForSync(context.Background(), poll.Options{
		Timeout:  10 * time.Second,
		Interval: time.Second,
		Clock:    clockwork.NewFakeClock(),
	})

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "/mnt/cache")
	assert.Contains(t, result.ErrorMessage, "disk full")
	assert.Equal(t, "req-9", result.RequestID)
}

// A sync that never terminates must end the wait within timeout + interval,
// reporting failure with a timeout message naming the pending paths.
func TestWaitForSyncTimesOut(t *testing.T) {
	fc := clockwork.NewFakeClock()
	seq := &statusSequence{statuses: []api.SyncStatus{running("/mnt/data")}}
	sess := newWaitingSession(seq)

	type waitReturn struct {
		result SyncResult
		err    error
	}
	done := make(chan waitReturn)
	go func() {
		result, err := sess.WaitForSync(context.Background(), poll.Options{
			Timeout:  5 * time.Second,
			Interval: time.Second,
			Clock:    fc,
		})
		done <- waitReturn{result, err}
	}()

	for i := 0; i < 5; i++ {
		fc.BlockUntil(1)
		fc.Advance(time.Second)
	}

	ret := <-done
	assert.NoError(t, ret.err)
	assert.False(t, ret.result.Success)
	assert.Contains(t, ret.result.ErrorMessage, "didn't finish within")
	assert.Contains(t, ret.result.ErrorMessage, "/mnt/data")
}

func TestWaitForSyncCanceled(t *testing.T) {
	fc := clockwork.NewFakeClock()
	seq := &statusSequence{statuses: []api.SyncStatus{running("/mnt/data")}}
	sess := newWaitingSession(seq)

	ctx, cancel := context.WithCancel(context.Background())
	type waitReturn struct {
		result SyncResult
		err    error
	}
	done := make(chan waitReturn)
	go func() {
		result, err := sess.WaitForSync(ctx, poll.Options{
			Timeout:  time.Minute,
			Interval: time.Second,
			Clock:    fc,
		})
		done <- waitReturn{result, err}
	}()

	fc.BlockUntil(1)
	cancel()

	ret := <-done
	assert.Equal(t, errors.ErrCanceled, ret.err)
	assert.True(t, ret.result.Canceled)
}

func TestWaitForSyncToleratesTransientProbeErrors(t *testing.T) {
	fc := clockwork.NewFakeClock()
	seq := &statusSequence{
		statuses: []api.SyncStatus{
			{}, {},
			succeeded("/mnt/data"),
		},
		errs: []error{
			errors.New("connection refused"),
			errors.New("connection refused"),
			nil,
		},
	}
	sess := newWaitingSession(seq)

	done := make(chan SyncResult)
	go func() {
		result, err := sess.WaitForSync(context.Background(), poll.Options{
			Timeout:  time.Minute,
			Interval: time.Second,
			Clock:    fc,
		})
		assert.NoError(t, err)
		done <- result
	}()

	for i := 0; i < 2; i++ {
		fc.BlockUntil(1)
		fc.Advance(time.Second)
	}

	result := <-done
	assert.True(t, result.Success)
	assert.Equal(t, 3, seq.count())
}

func TestWaitForSyncAsyncDeliversOnce(t *testing.T) {
	fc := clockwork.NewFakeClock()
	seq := &statusSequence{statuses: []api.SyncStatus{
		running("/mnt/data"),
		succeeded("/mnt/data"),
	}}
	sess := newWaitingSession(seq)

	results := sess.WaitForSyncAsync(context.Background(), poll.Options{
		Timeout:  10 * time.Second,
		Interval: time.Second,
		Clock:    fc,
	})

	fc.BlockUntil(1)
	fc.Advance(time.Second)

	result := <-results
	assert.True(t, result.Success)

	// Exactly one result is ever sent.
	select {
	case extra := <-results:
		t.Fatalf("unexpected second result: %+v", extra)
	default:
	}
}

func TestWaitForSyncCallbackInvokedExactlyOnce(t *testing.T) {
	seq := &statusSequence{statuses: []api.SyncStatus{succeeded("/mnt/data")}}
	sess := newWaitingSession(seq)

	calls := make(chan SyncResult, 2)
	sess.WaitForSyncCallback(context.Background(), poll.Options{
		Timeout:  10 * time.Second,
		Interval: time.Second,
		Clock:    clockwork.NewFakeClock(),
	}, func(result SyncResult) {
		calls <- result
	})

	result := <-calls
	assert.True(t, result.Success)

	select {
	case <-calls:
		t.Fatal("callback invoked more than once")
	case <-time.After(50 * time.Millisecond):
	}
}
