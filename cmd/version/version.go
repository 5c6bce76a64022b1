package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stowage-dev/stowage/cmd/util"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/version"
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the local and remote version of Stowage.",
		Long: "Print the local version of the Stowage CLI and the version\n" +
			"of the Stowage service it's configured to talk to.",
		Run: func(_ *cobra.Command, args []string) {
			if err := run(); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run() error {
	fmt.Printf("local version:   %s\n", version.Version)

	client, err := util.GetClient()
	if err != nil {
		return err
	}

	serviceVersion, err := client.GetServiceVersion()
	if err != nil {
		return errors.WithContext(err, "get service version")
	}

	fmt.Printf("service version: %s\n", serviceVersion.Version)
	return nil
}
