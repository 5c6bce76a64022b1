package config

import (
	"path/filepath"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/stowage-dev/stowage/pkg/errors"
)

const (
	// DefaultEndpoint is the Stowage API endpoint used when the user config
	// doesn't specify one.
	DefaultEndpoint = "https://api.stowage.dev"

	// UserConfigPath is the default path to the Stowage user config.
	UserConfigPath = "~/.stowage.yaml"

	// InitialUserConfigVersion is the first version of the Stowage
	// user config. Config files that do not specify a version
	// will default to this version.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the supported version of the
	// Stowage user config of the current Stowage binary.
	SupportedUserConfigVersion = "v1alpha1"
)

// User contains configuration used to identify the user and reach the
// Stowage service.
type User struct {
	Version     string `json:"version,omitempty"`
	Endpoint    string `json:"endpoint"`
	AccessToken string `json:"accessToken"`
	Account     string `json:"account,omitempty"`
	Region      string `json:"region,omitempty"`

	// DisableTelemetry turns off the usage events that the CLI posts to the
	// Stowage telemetry intake.
	DisableTelemetry bool `json:"disableTelemetry,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// ParseUser attempts to parse the User stored in the default path.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := User{Version: InitialUserConfigVersion}
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return User{}, errors.NewFriendlyError("The Stowage user config "+
				"file doesn't exist at %q. Please run `stowage config` to "+
				"create the user config file.", path)
		}
		return User{}, errors.WithContext(err, "parse")
	}

	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	return config, nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	configBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, configBytes, 0600); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath returns the expanded path to the Stowage user config.
func GetUserConfigPath() (string, error) {
	path, err := homedirExpand(UserConfigPath)
	if err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand
