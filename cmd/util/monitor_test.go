package util

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/synccode/pkg/config"
	"github.com/sidkik/synccode/pkg/errors"
)

func TestUserConfig(t *testing.T) {
	homedirExpand = func(path string) (string, error) {
		if path == config.DefaultBasePath {
			return "/home/kevin/synccode", nil
		}
		return path, nil
	}

	userConfig := config.User{
		User:            "kevin",
		Path:            "/sync",
		DownloadCommand: "download",
	}
	configErr := errors.New("no config")

	tests := []struct {
		name      string
		opts      MonitorOptions
		config    config.User
		configErr error
		expConfig config.User
		expError  bool
	}{
		{
			name:      "ConfigOnly",
			config:    userConfig,
			expConfig: userConfig,
		},
		{
			name:   "FlagsOverride",
			opts:   MonitorOptions{User: "ethan", DownloadCommand: "other"},
			config: userConfig,
			expConfig: config.User{
				User:            "ethan",
				Path:            "/sync",
				DownloadCommand: "other",
			},
		},
		{
			name:      "NoConfig",
			opts:      MonitorOptions{User: "ethan"},
			configErr: configErr,
			expConfig: config.User{
				User: "ethan",
				Path: "/home/kevin/synccode",
			},
		},
		{
			name:      "NoConfigOrUser",
			opts:      MonitorOptions{Path: "/sync"},
			configErr: configErr,
			expError:  true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			parseUserConfig = func() (config.User, error) {
				return test.config, test.configErr
			}

			cfg, err := test.opts.UserConfig()
			if test.expError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expConfig, cfg)
		})
	}
}
