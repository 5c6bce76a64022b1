package session

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stowage-dev/stowage/cmd/util"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/session"
	"github.com/stowage-dev/stowage/pkg/storage"
	"github.com/stowage-dev/stowage/pkg/storage/policy"
)

// New creates a new `session` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage ephemeral sandbox sessions",
	}
	cmd.AddCommand(newCreateCommand())
	cmd.AddCommand(newReleaseCommand())
	return cmd
}

func newCreateCommand() *cobra.Command {
	var name, image string
	var mounts []string
	var createMissing bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session with contexts mounted into it",
		Long: "Create a new session with contexts mounted into it. Each mount\n" +
			"binds a context into the session at the given path, e.g.\n" +
			"`--mount training-data=/mnt/data`.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runCreate(name, image, mounts, createMissing); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "A human-readable name for the session.")
	cmd.Flags().StringVar(&image, "image", "", "The sandbox image to boot.")
	cmd.Flags().StringSliceVar(&mounts, "mount", nil,
		"A context to mount, as CONTEXT=PATH. May be repeated.")
	cmd.Flags().BoolVar(&createMissing, "create-missing", false,
		"Create contexts named in --mount that don't exist yet.")
	return cmd
}

func runCreate(name, image string, mounts []string, createMissing bool) error {
	client, err := util.GetClient()
	if err != nil {
		return err
	}
	registry := storage.NewRegistry(client)

	draft := session.NewDraft()
	draft.Name = name
	draft.Image = image
	for _, mount := range mounts {
		contextName, path, err := parseMount(mount)
		if err != nil {
			return err
		}

		mountContext, err := registry.Get(contextName, createMissing)
		if err != nil {
			return errors.WithContext(err,
				fmt.Sprintf("get context %q", contextName))
		}

		if _, err := draft.Mount(mountContext, path, policy.Default()); err != nil {
			return errors.WithContext(err, fmt.Sprintf("mount %q", mount))
		}
	}

	created, err := draft.Create(client)
	if err != nil {
		return errors.WithContext(err, "create session")
	}

	fmt.Printf("Created session %s\n", created.ID)
	return nil
}

// parseMount splits a CONTEXT=PATH mount argument.
func parseMount(mount string) (string, string, error) {
	parts := strings.SplitN(mount, "=", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.NewFriendlyError(
			"Invalid mount %q. Mounts must be of the form CONTEXT=PATH, "+
				"e.g. `--mount training-data=/mnt/data`.", mount)
	}
	return parts[0], parts[1], nil
}

func newReleaseCommand() *cobra.Command {
	var syncFirst bool
	cmd := &cobra.Command{
		Use:   "release SESSION_ID",
		Short: "Release a session and its sandbox resources",
		Long: "Release a session and its sandbox resources. With --sync-first,\n" +
			"the service uploads any unsynced changes before the sandbox's\n" +
			"disk is released.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			client, err := util.GetClient()
			if err != nil {
				util.HandleFatalError(err)
			}

			sess := session.Attach(client, args[0])
			if err := sess.Release(syncFirst); err != nil {
				util.HandleFatalError(errors.WithContext(err, "release session"))
			}
			fmt.Printf("Released session %s\n", sess.ID)
		},
	}
	cmd.Flags().BoolVar(&syncFirst, "sync-first", true,
		"Upload unsynced changes before releasing the sandbox.")
	return cmd
}
