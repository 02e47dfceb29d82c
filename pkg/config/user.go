package config

import (
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/sidkik/synccode/pkg/errors"
)

const (
	// UserConfigPath is the default path to the synccode user config.
	UserConfigPath = "~/.synccode.yaml"

	// UsernamePath is a plain text file containing only the user's name. It's
	// consulted when the user config doesn't set a user.
	UsernamePath = "~/username"

	// DefaultBasePath is the directory repositories are synced into when the
	// user config doesn't set one.
	DefaultBasePath = "~/synccode"

	// InitialUserConfigVersion is the first version of the synccode user
	// config. Config files that do not specify a version will default to
	// this version.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the supported version of the synccode
	// user config of the current binary.
	SupportedUserConfigVersion = "v1alpha1"
)

// User identifies the user whose repositories are synced, and where they're
// synced to.
type User struct {
	Version string `json:"version,omitempty"`
	User    string `json:"user"`
	Path    string `json:"path,omitempty"`

	// DownloadCommand is the executable that implements `download-repo`.
	DownloadCommand string `json:"downloadCommand,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// ParseUser parses the user config at the default path. The config file is
// optional: the user name then comes from UsernamePath, and the path
// defaults to DefaultBasePath.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := User{Version: InitialUserConfigVersion}
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); !ok {
			return User{}, errors.WithContext(err, "parse")
		}
		config = User{Version: SupportedUserConfigVersion}
	}

	if config.User == "" {
		config.User, err = readUsername()
		if err != nil {
			return User{}, err
		}
	}

	if config.Path == "" {
		config.Path = DefaultBasePath
	}
	config.Path, err = homedirExpand(config.Path)
	if err != nil {
		return User{}, errors.WithContext(err, "expand sync path")
	}

	// Evaluate relative paths relative to the config path.
	if !filepath.IsAbs(config.Path) {
		config.Path = filepath.Join(filepath.Dir(path), config.Path)
	}
	return config, nil
}

func readUsername() (string, error) {
	path, err := homedirExpand(UsernamePath)
	if err != nil {
		return "", errors.WithContext(err, "expand username path")
	}

	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.NewFriendlyError("The synccode user isn't configured. "+
			"Please run `synccode config --user <name>`, or write your user "+
			"name to %q.", path)
	}

	username := strings.TrimSpace(string(contents))
	if username == "" {
		return "", errors.NewFriendlyError("%q is empty. Please write your "+
			"synccode user name to it.", path)
	}
	return username, nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath gets the path to the user's global synccode
// configuration. This path is expanded, so it can be directly passed to file
// operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
