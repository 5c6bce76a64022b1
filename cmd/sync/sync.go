package sync

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buger/goterm"
	"github.com/spf13/cobra"

	"github.com/stowage-dev/stowage/cmd/util"
	"github.com/stowage-dev/stowage/pkg/analytics"
	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/poll"
	"github.com/stowage-dev/stowage/pkg/session"
)

// New creates a new `sync` command.
func New() *cobra.Command {
	var timeout, interval time.Duration
	var noRequest, async bool
	cmd := &cobra.Command{
		Use:   "sync SESSION_ID",
		Short: "Sync a session's mounts and wait for the result",
		Long: "Request a sync of every mount in the session and wait until all\n" +
			"of them reach a terminal state.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := run(args[0], timeout, interval, noRequest, async); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute,
		"How long to wait for the sync to finish.")
	cmd.Flags().DurationVar(&interval, "poll-interval", 2*time.Second,
		"How often to poll the sync status.")
	cmd.Flags().BoolVar(&noRequest, "no-request", false,
		"Don't request a new sync; just wait for the most recent one.")
	cmd.Flags().BoolVar(&async, "async", false,
		"Request the sync and exit without waiting for it to finish.")
	return cmd
}

func run(sessionID string, timeout, interval time.Duration, noRequest, async bool) error {
	client, err := util.GetClient()
	if err != nil {
		return err
	}
	sess := session.Attach(client, sessionID)

	if !noRequest {
		if err := sess.RequestSync(); err != nil {
			return errors.WithContext(err, "request sync")
		}
	}
	if async {
		fmt.Println("Sync requested.")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cancelOnInterrupt(cancel)

	pp := util.NewProgressPrinter(os.Stdout, "Waiting for mounts to sync..")
	go pp.Run()
	result, err := sess.WaitForSync(ctx, poll.Options{
		Timeout:  timeout,
		Interval: interval,
	})
	pp.StopWithPrint(util.ClearProgress)
	if err != nil {
		return err
	}

	status, statusErr := sess.SyncStatus()
	if statusErr == nil {
		printStatus(status)
	}

	if !result.Success {
		return errors.NewFriendlyError("Sync failed: %s\n"+
			"Request ID for support: %s", result.ErrorMessage, result.RequestID)
	}

	analytics.Log.WithField("session", sessionID).Info("Synced")
	fmt.Println("All mounts synced.")
	return nil
}

func printStatus(status api.SyncStatus) {
	for _, record := range status.Records {
		fmt.Printf("%s\t%s\n", record.Path, recordStatusString(record))
	}
}

func recordStatusString(record api.SyncStatusRecord) string {
	color := goterm.BLACK
	switch record.Status {
	case api.SyncQueued:
		color = goterm.YELLOW
	case api.SyncRunning:
		color = goterm.YELLOW
	case api.SyncSuccess:
		color = goterm.GREEN
	case api.SyncFailed:
		color = goterm.RED
	}

	msg := string(record.Status)
	if record.ErrorMessage != "" {
		msg += ": " + record.ErrorMessage
	}
	return goterm.Color(msg, color)
}

func cancelOnInterrupt(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	cancel()
}
