package config

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"

	"github.com/stowage-dev/stowage/pkg/config"
	"github.com/stowage-dev/stowage/pkg/errors"
)

func TestPromptUser(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		defaultAnswer string
		currAnswer    string
		exp           string
	}{
		{
			name:          "accept default",
			input:         "\n",
			defaultAnswer: "https://api.stowage.dev",
			exp:           "https://api.stowage.dev",
		},
		{
			name:          "pick current answer",
			input:         "2\n",
			defaultAnswer: "https://api.stowage.dev",
			currAnswer:    "https://stowage.internal",
			exp:           "https://stowage.internal",
		},
		{
			name:          "enter manually",
			input:         "2\nhttps://stowage.internal\n",
			defaultAnswer: "https://api.stowage.dev",
			exp:           "https://stowage.internal",
		},
		{
			name:  "no options prompts directly",
			input: "secret-token\n",
			exp:   "secret-token",
		},
		{
			name:          "invalid choice reprompts",
			input:         "9\n1\n",
			defaultAnswer: "https://api.stowage.dev",
			exp:           "https://api.stowage.dev",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			stdout = &bytes.Buffer{}
			stdin = strings.NewReader(test.input)

			resp, err := promptUser("help", "prompt",
				test.defaultAnswer, test.currAnswer)
			assert.NoError(t, err)
			assert.Equal(t, test.exp, resp)
		})
	}
}

func TestGenerateConfigPromptsMissingFields(t *testing.T) {
	out := &bytes.Buffer{}
	stdout = out
	parseUserConfig = func() (config.User, error) {
		return config.User{}, errors.New("no config")
	}

	// Everything except the region is supplied on the command line, so only
	// the region should be prompted for.
	stdin = strings.NewReader("us-east-1\n")
	cfg, err := generateConfig(config.User{
		Endpoint:    "https://stowage.internal",
		AccessToken: "secret-token",
		Account:     "acme",
	})
	assert.NoError(t, err)
	assert.Equal(t, config.User{
		Endpoint:    "https://stowage.internal",
		AccessToken: "secret-token",
		Account:     "acme",
		Region:      "us-east-1",
	}, cfg)
	assert.Contains(t, out.String(), "Storage region")
	assert.NotContains(t, out.String(), "Access token")
}

func TestGenerateConfigValidatesAccount(t *testing.T) {
	out := &bytes.Buffer{}
	stdout = out
	parseUserConfig = func() (config.User, error) {
		return config.User{}, errors.New("no config")
	}

	// The first answer is rejected, and the prompt repeats. Each prompt
	// wraps stdin in its own buffered reader, so feed input a byte at a time
	// to keep the second answer from being swallowed by the first reader.
	stdin = iotest.OneByteReader(strings.NewReader("Acme Corp\nacme\n"))
	cfg, err := generateConfig(config.User{
		Endpoint:    "https://stowage.internal",
		AccessToken: "secret-token",
		Region:      "us-east-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "acme", cfg.Account)
	assert.Contains(t, out.String(), "invalid characters")
}

func TestSetupConfigWritesConfig(t *testing.T) {
	stdout = &bytes.Buffer{}
	parseUserConfig = func() (config.User, error) {
		return config.User{}, errors.New("no config")
	}

	var written config.User
	writeUserConfig = func(cfg config.User) error {
		written = cfg
		return nil
	}

	opts := config.User{
		Endpoint:    "https://stowage.internal",
		AccessToken: "secret-token",
		Account:     "acme",
		Region:      "us-east-1",
	}
	assert.NoError(t, SetupConfig(opts))
	assert.Equal(t, opts, written)
}

func TestAccountValidation(t *testing.T) {
	tests := []struct {
		account string
		expOK   bool
	}{
		{account: "acme", expOK: true},
		{account: "acme-2", expOK: true},
		{account: "", expOK: true},
		{account: "Acme", expOK: false},
		{account: "-acme", expOK: false},
		{account: "acme-", expOK: false},
		{account: strings.Repeat("a", 64), expOK: false},
	}

	for _, test := range tests {
		_, ok := accountValidationFn(test.account)
		assert.Equal(t, test.expOK, ok, "account %q", test.account)
	}
}
