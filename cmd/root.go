package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	configCmd "github.com/stowage-dev/stowage/cmd/config"
	contextCmd "github.com/stowage-dev/stowage/cmd/context"
	sessionCmd "github.com/stowage-dev/stowage/cmd/session"
	syncCmd "github.com/stowage-dev/stowage/cmd/sync"
	"github.com/stowage-dev/stowage/cmd/upgradecli"
	"github.com/stowage-dev/stowage/cmd/util"
	"github.com/stowage-dev/stowage/cmd/version"
	"github.com/stowage-dev/stowage/pkg/analytics"
	"github.com/stowage-dev/stowage/pkg/config"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "STOWAGE_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:          "stowage",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors:    true,
		PersistentPreRun: setupAnalytics,
	}
	rootCmd.AddCommand(
		configCmd.New(),
		contextCmd.New(),
		sessionCmd.New(),
		syncCmd.New(),
		upgradecli.New(),
		version.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

func setupAnalytics(cmd *cobra.Command, _ []string) {
	analytics.SetSource(cmd.CalledAs())

	userConfig, err := config.ParseUser()
	if err != nil {
		log.WithError(err).Debug("Failed to read user config for analytics")
		return
	}

	if userConfig.DisableTelemetry {
		analytics.Disable()
		return
	}

	analytics.SetRegion(userConfig.Region)
	analytics.SetAccount(userConfig.Account)
}
