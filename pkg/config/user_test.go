package config

import (
	"fmt"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/stowage-dev/stowage/pkg/errors"
)

func TestParseUser(t *testing.T) {
	out := ".stowage.yaml"
	userEmptyVersion := User{
		Endpoint:    "https://api.stowage.dev",
		AccessToken: "token",
		Region:      "us-west-1",
	}
	userInitialVersion := User{
		Version:     InitialUserConfigVersion,
		Endpoint:    "https://api.stowage.dev",
		AccessToken: "token",
		Region:      "us-west-1",
	}
	userCorrectVersion := User{
		Version:     SupportedUserConfigVersion,
		Endpoint:    "https://api.stowage.dev",
		AccessToken: "token",
		Region:      "us-west-1",
	}
	userIncorrectVersion := User{
		Version:     "incorrect_version",
		Endpoint:    "https://api.stowage.dev",
		AccessToken: "token",
		Region:      "us-west-1",
	}
	userEmptyVersionString, err := yaml.Marshal(userEmptyVersion)
	assert.NoError(t, err)
	userCorrectVersionString, err := yaml.Marshal(userCorrectVersion)
	assert.NoError(t, err)
	userIncorrectVersionString, err := yaml.Marshal(userIncorrectVersion)
	assert.NoError(t, err)

	tests := []struct {
		input     []byte
		expConfig User
		expError  error
	}{
		{
			input:     userEmptyVersionString,
			expConfig: userInitialVersion,
			expError:  nil,
		},
		{
			input:     userCorrectVersionString,
			expConfig: userCorrectVersion,
			expError:  nil,
		},
		{
			input:     userIncorrectVersionString,
			expConfig: User{},
			expError: errors.WithContext(incompatibleVersionError{
				path:   out,
				exp:    SupportedUserConfigVersion,
				actual: userIncorrectVersion.Version,
			}, "parse"),
		},
		{
			input: []byte(fmt.Sprintf(
				"version: %s\nextra: fields", SupportedUserConfigVersion)),
			expError: errors.WithContext(
				errors.NewFriendlyError(parseConfigErrTemplate, out,
					errors.New("error unmarshaling JSON: while decoding JSON: "+
						`json: unknown field "extra"`)),
				"parse"),
		},
	}

	for _, test := range tests {
		fs = afero.NewMemMapFs()
		homedirExpand = func(path string) (string, error) {
			return out, nil
		}

		err := afero.WriteFile(fs, out, test.input, 0644)
		assert.NoError(t, err)

		config, err := ParseUser()
		assert.Equal(t, test.expConfig, config)
		if test.expError != nil {
			assert.EqualError(t, err, test.expError.Error())
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestParseUserDefaultEndpoint(t *testing.T) {
	out := ".stowage.yaml"
	fs = afero.NewMemMapFs()
	homedirExpand = func(path string) (string, error) {
		return out, nil
	}

	input, err := yaml.Marshal(User{AccessToken: "token"})
	assert.NoError(t, err)
	assert.NoError(t, afero.WriteFile(fs, out, input, 0644))

	config, err := ParseUser()
	assert.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, config.Endpoint)
}

func TestWriteUser(t *testing.T) {
	out := ".stowage.yaml"
	fs = afero.NewMemMapFs()
	homedirExpand = func(path string) (string, error) {
		return out, nil
	}

	cfg := User{
		Endpoint:    "https://api.stowage.dev",
		AccessToken: "token",
	}
	assert.NoError(t, WriteUser(cfg))

	parsed, err := ParseUser()
	assert.NoError(t, err)
	cfg.Version = SupportedUserConfigVersion
	assert.Equal(t, cfg, parsed)
}
