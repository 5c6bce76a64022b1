// Package poll implements the polling core shared by every "wait until the
// server says we're done" operation in the SDK. Sync waiting and context
// clearing have different task models but the same loop: probe, partition
// into terminal and pending, sleep, repeat until done or deadline. The loop
// lives here once so that timeout math isn't reimplemented per task kind.
package poll

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/stowage-dev/stowage/pkg/errors"
)

// MinInterval is the floor applied to poll intervals to avoid hot-looping
// against the status endpoint.
const MinInterval = 100 * time.Millisecond

// maxProbeFailures is how many consecutive probe errors are tolerated as
// transient before the wait is aborted. Network blips during a single probe
// shouldn't kill a long wait, but a dead endpoint should.
const maxProbeFailures = 3

// ErrTimeout is returned by Until when the deadline passes before the probe
// reports done.
var ErrTimeout = errors.New("polling deadline exceeded")

// Probe checks the remote state once. It returns done=true when the state
// is terminal. Probes only observe remote state, so aborting a wait never
// corrupts anything.
type Probe func() (done bool, err error)

// Options configures a wait. The zero Clock means wall-clock time; tests
// substitute a clockwork.FakeClock.
type Options struct {
	// Timeout bounds the whole wait. There is no implicit maximum; it's the
	// caller's responsibility to pick something sane.
	Timeout time.Duration

	// Interval is the pause between probes, clamped to MinInterval.
	Interval time.Duration

	Clock clockwork.Clock
}

func (opts Options) clock() clockwork.Clock {
	if opts.Clock == nil {
		return clockwork.NewRealClock()
	}
	return opts.Clock
}

func (opts Options) interval() time.Duration {
	if opts.Interval < MinInterval {
		return MinInterval
	}
	return opts.Interval
}

// Until repeatedly invokes probe until it reports done, the timeout passes,
// or ctx is canceled. Probes are strictly sequential: there is never more
// than one in flight for a single wait. Cancellation is cooperative; an
// in-flight probe is allowed to finish, and the cancellation is observed at
// the next sleep boundary, returning errors.ErrCanceled.
//
// Probe errors are treated as transient (the state is presumed still
// pending) until maxProbeFailures occur consecutively, at which point the
// last error is returned.
func Until(ctx context.Context, opts Options, probe Probe) error {
	clock := opts.clock()
	interval := opts.interval()
	deadline := clock.Now().Add(opts.Timeout)

	failures := 0
	for {
		done, err := probe()
		if err != nil {
			failures++
			if failures >= maxProbeFailures {
				return errors.WithContext(err, "poll remote status")
			}
		} else {
			failures = 0
			if done {
				return nil
			}
		}

		if !clock.Now().Before(deadline) {
			return ErrTimeout
		}

		select {
		case <-ctx.Done():
			return errors.ErrCanceled
		case <-clock.After(interval):
		}
	}
}
