package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stowage-dev/stowage/cmd/util"
	"github.com/stowage-dev/stowage/pkg/config"
	"github.com/stowage-dev/stowage/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	stdin           io.Reader = os.Stdin
	parseUserConfig           = config.ParseUser
	writeUserConfig           = config.WriteUser
)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.User
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the Stowage user configuration",
		Run: func(_ *cobra.Command, _ []string) {
			if err := SetupConfig(cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.Endpoint, "endpoint", "",
		"Set the API endpoint in the config. "+
			"Optional: If not set, `stowage config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.AccessToken, "token", "",
		"Set the access token in the config. "+
			"Optional: If not set, `stowage config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Account, "account", "",
		"Set the account name in the config. "+
			"Optional: If not set, `stowage config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Region, "region", "",
		"Set the storage region in the config. "+
			"Optional: If not set, `stowage config` will interactively prompt.")
	cmd.Flags().BoolVar(&cliOpts.DisableTelemetry, "disable-telemetry", false,
		"Disable the usage events that the CLI posts to the Stowage telemetry intake.")

	// Setup the commands for querying the contents of the user config.
	type getterSpec struct {
		use, short string
		fn         func(config.User) string
	}

	getters := []getterSpec{
		{
			use:   "get-endpoint",
			short: "Get the currently configured API endpoint",
			fn:    func(cfg config.User) string { return cfg.Endpoint },
		},
		{
			use:   "get-account",
			short: "Get the currently configured account name",
			fn:    func(cfg config.User) string { return cfg.Account },
		},
		{
			use:   "get-region",
			short: "Get the currently configured storage region",
			fn:    func(cfg config.User) string { return cfg.Region },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseUserConfig()
				if err != nil {
					err = errors.WithContext(err, "read config")
					util.HandleFatalError(err)
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

// SetupConfig fills in any fields missing from cliOpts by prompting the
// user, and writes the resulting config to disk.
func SetupConfig(cliOpts config.User) error {
	cfg, err := generateConfig(cliOpts)
	if err != nil {
		return errors.WithContext(err, "generate config")
	}

	if err := writeUserConfig(cfg); err != nil {
		return errors.WithContext(err, "write config")
	}

	path, err := config.GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	fmt.Fprintf(stdout, "Wrote config to %s\n", path)
	return nil
}

func accountValidationFn(account string) (string, bool) {
	// Account names are DNS-1123 labels: lowercase alphanumeric with
	// interior hyphens, at most 63 characters.
	dns1123MaxLen := 63

	if len(account) > dns1123MaxLen {
		return "The account name must not be more than 63 characters. " +
			"Please check the name with your account administrator.", false
	}

	re := regexp.MustCompile(`^[-a-z0-9]*$`)
	if !strings.HasPrefix(account, "-") && !strings.HasSuffix(account, "-") &&
		re.MatchString(account) {
		return "", true
	}

	return "This account name contains invalid characters. " +
		"Account names only use the following characters:\n" +
		"1) lowercase letters (a-z) \n" +
		"2) numbers (0-9) \n" +
		"3) - \n" +
		"and do not start or end with the `-` character.", false
}

type prompt struct {
	helpString, prompt, defaultAnswer, currAnswer string
	field                                         *string
	validationFn                                  func(string) (string, bool)
}

// generateConfig interacts with the user to decide what the user's desired
// configuration is.
// It makes best guesses at reasonable defaults, and allows users to explicitly
// override them if desired.
func generateConfig(cliOpts config.User) (config.User, error) {
	currConfig, err := parseUserConfig()
	if err != nil {
		currConfig = config.User{}
		log.WithError(err).Debug("Failed to read current config")
	}

	cfg := cliOpts
	var prompts []prompt
	if cliOpts.Endpoint == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the Stowage API endpoint.\n" +
				"It defaults to the hosted Stowage service.",
			prompt:        "API endpoint",
			defaultAnswer: config.DefaultEndpoint,
			currAnswer:    currConfig.Endpoint,
			field:         &cfg.Endpoint,
		})
	}

	if cliOpts.AccessToken == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter your Stowage access token.\n" +
				"Tokens can be created in the account settings page.",
			prompt:     "Access token",
			currAnswer: currConfig.AccessToken,
			field:      &cfg.AccessToken,
		})
	}

	if cliOpts.Account == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter your Stowage account name.\n" +
				"It's shown in the account settings page next to the access tokens.",
			prompt:       "Account name",
			currAnswer:   currConfig.Account,
			field:        &cfg.Account,
			validationFn: accountValidationFn,
		})
	}

	if cliOpts.Region == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the storage region to create contexts in.\n" +
				"Leave it empty to let the service pick the closest region.",
			prompt:     "Storage region",
			currAnswer: currConfig.Region,
			field:      &cfg.Region,
		})
	}

	for _, prompt := range prompts {
		var resp string
		for {
			resp, err = promptUser(prompt.helpString, prompt.prompt,
				prompt.defaultAnswer, prompt.currAnswer)
			if err != nil {
				return config.User{}, errors.WithContext(err, "read response")
			}

			if prompt.validationFn == nil {
				break
			}

			validationErr, ok := prompt.validationFn(resp)
			if ok {
				break
			}

			fmt.Fprintln(stdout, validationErr)
		}

		*prompt.field = resp
	}

	return cfg, nil
}

func promptUser(helpString, prompt, defaultAnswer, currAnswer string) (string, error) {
	// Display a new line at the end to separate different fields to make it
	// look clearer.
	defer fmt.Fprintln(stdout)

	options := []string{}
	if defaultAnswer != "" {
		options = append(options, defaultAnswer)
	}
	if currAnswer != "" && currAnswer != defaultAnswer {
		options = append(options, currAnswer)
	}
	options = append(options, "(Enter manually)")

	fmt.Fprintln(stdout, helpString+"\n"+prompt+":")

	stdinReader := bufio.NewReader(stdin)

	if nOptions := len(options); nOptions > 1 {
		// defaultAnswer or currAnswer exists.
		fmt.Fprintln(stdout)
		for i, option := range options {
			if i == 0 {
				option = fmt.Sprintf("%s (recommended)", option)
			}
			fmt.Fprintf(stdout, "\t%d. %s\n", i+1, option)
		}
		fmt.Fprintln(stdout)

		for {
			fmt.Fprintf(stdout, "Please choose one [1-%d]: ", nOptions)
			choiceStr, err := stdinReader.ReadString('\n')
			if err != nil {
				return "", err
			}

			var choice int
			choiceStr = strings.TrimRight(choiceStr, "\n")

			// Default to the first choice if user doesn't enter anything.
			if choiceStr == "" {
				choice = 1
			} else {
				choice, err = strconv.Atoi(choiceStr)
				if err != nil || choice < 1 || choice > nOptions {
					// Try again if the input is invalid.
					continue
				}
			}

			if choice == nOptions {
				// Enter manually.
				break
			}

			return options[choice-1], nil
		}
	}

	fmt.Fprint(stdout, "Please enter manually: ")
	resp, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(resp, "\n"), nil
}
