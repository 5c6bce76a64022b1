package context

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stowage-dev/stowage/cmd/util"
	"github.com/stowage-dev/stowage/pkg/analytics"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/poll"
	"github.com/stowage-dev/stowage/pkg/storage"
)

// New creates a new `context` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage durable storage contexts",
	}
	cmd.AddCommand(newCreateCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newDeleteCommand())
	cmd.AddCommand(newClearCommand())
	return cmd
}

func newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new storage context",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			registry, err := getRegistry()
			if err != nil {
				util.HandleFatalError(err)
			}

			created, err := registry.Create(args[0])
			if err != nil {
				util.HandleFatalError(errors.WithContext(err, "create context"))
			}
			fmt.Printf("Created context %q (%s)\n", created.Name, created.ID)
		},
	}
}

func newListCommand() *cobra.Command {
	var nameFilter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List storage contexts",
		Run: func(_ *cobra.Command, _ []string) {
			registry, err := getRegistry()
			if err != nil {
				util.HandleFatalError(err)
			}

			contexts, err := registry.List(nameFilter)
			if err != nil {
				util.HandleFatalError(errors.WithContext(err, "list contexts"))
			}

			if len(contexts) == 0 {
				fmt.Println("No contexts found.")
				return
			}
			fmt.Printf("%-36s %-24s %s\n", "ID", "NAME", "LAST USED")
			for _, c := range contexts {
				lastUsed := "never"
				if !c.LastUsedAt.IsZero() {
					lastUsed = c.LastUsedAt.Format(time.RFC3339)
				}
				fmt.Printf("%-36s %-24s %s\n", c.ID, c.Name, lastUsed)
			}
		},
	}
	cmd.Flags().StringVar(&nameFilter, "filter", "",
		"Only list contexts whose name contains the given string.")
	return cmd
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a storage context and its contents",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			registry, err := getRegistry()
			if err != nil {
				util.HandleFatalError(err)
			}

			toDelete, err := registry.Get(args[0], false)
			if err != nil {
				util.HandleFatalError(errors.WithContext(err, "get context"))
			}

			if err := registry.Delete(toDelete); err != nil {
				util.HandleFatalError(errors.WithContext(err, "delete context"))
			}
			fmt.Printf("Deleted context %q\n", toDelete.Name)
		},
	}
}

func newClearCommand() *cobra.Command {
	var timeout, interval time.Duration
	var async bool
	cmd := &cobra.Command{
		Use:   "clear NAME ...",
		Short: "Clear the contents of storage contexts",
		Long: "Clear the contents of the named storage contexts without deleting\n" +
			"the contexts themselves. By default the command waits until the\n" +
			"service reports each clearance finished.",
		Args: cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := runClear(args, timeout, interval, async); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute,
		"How long to wait for each clearance to finish.")
	cmd.Flags().DurationVar(&interval, "poll-interval", 2*time.Second,
		"How often to poll the clearance status.")
	cmd.Flags().BoolVar(&async, "async", false,
		"Request the clearances and exit without waiting for them to finish.")
	return cmd
}

func runClear(names []string, timeout, interval time.Duration, async bool) error {
	registry, err := getRegistry()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cancelOnInterrupt(cancel)

	// Clearances are independent, so run them concurrently. A failure on one
	// context doesn't cancel the others.
	var group errgroup.Group
	for _, name := range names {
		name := name
		group.Go(func() error {
			toClear, err := registry.Get(name, false)
			if err != nil {
				return errors.WithContext(err, fmt.Sprintf("get context %q", name))
			}

			if async {
				task, err := registry.ClearAsync(toClear)
				if err != nil {
					return errors.WithContext(err, fmt.Sprintf("clear %q", name))
				}
				fmt.Printf("Clearing %q (task %s)\n", name, task.TaskID)
				return nil
			}

			err = registry.Clear(ctx, toClear, poll.Options{
				Timeout:  timeout,
				Interval: interval,
			})
			if err != nil {
				return errors.WithContext(err, fmt.Sprintf("clear %q", name))
			}

			log.WithField("context", name).Debug("Clearance finished")
			fmt.Printf("Cleared %q\n", name)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	analytics.Log.WithField("contexts", len(names)).Info("Cleared contexts")
	return nil
}

func getRegistry() (storage.Registry, error) {
	client, err := util.GetClient()
	if err != nil {
		return storage.Registry{}, err
	}
	return storage.NewRegistry(client), nil
}

func cancelOnInterrupt(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	cancel()
}
