package config

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/synccode/pkg/errors"
)

const (
	mockConfigPath   = "/home/.synccode.yaml"
	mockUsernamePath = "/home/username"
)

func mockHomedirExpand(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		return "/home/" + strings.TrimPrefix(path, "~/"), nil
	}
	return path, nil
}

// mockFs replaces the filesystem and home directory expansion for the
// duration of the test.
func mockFs(t *testing.T) {
	fs = afero.NewMemMapFs()
	homedirExpand = mockHomedirExpand
	t.Cleanup(func() {
		fs = afero.NewOsFs()
		homedirExpand = homedir.Expand
	})
}

func TestParseUser(t *testing.T) {
	userEmptyVersion := User{
		User: "kevin",
		Path: "/sync",
	}
	userInitialVersion := User{
		Version: InitialUserConfigVersion,
		User:    "kevin",
		Path:    "/sync",
	}
	userCorrectVersion := User{
		Version:         SupportedUserConfigVersion,
		User:            "kevin",
		Path:            "/sync",
		DownloadCommand: "/usr/bin/synccode-download",
	}
	userIncorrectVersion := User{
		Version: "incorrect_version",
		User:    "kevin",
	}
	userEmptyVersionString, err := yaml.Marshal(userEmptyVersion)
	assert.NoError(t, err)
	userCorrectVersionString, err := yaml.Marshal(userCorrectVersion)
	assert.NoError(t, err)
	userIncorrectVersionString, err := yaml.Marshal(userIncorrectVersion)
	assert.NoError(t, err)

	tests := []struct {
		name      string
		input     []byte
		username  string
		expConfig User
		expError  error
	}{
		{
			name:      "EmptyVersion",
			input:     userEmptyVersionString,
			expConfig: userInitialVersion,
		},
		{
			name:      "CorrectVersion",
			input:     userCorrectVersionString,
			expConfig: userCorrectVersion,
		},
		{
			name:  "IncorrectVersion",
			input: userIncorrectVersionString,
			expError: errors.WithContext(incompatibleVersionError{
				path:   mockConfigPath,
				exp:    SupportedUserConfigVersion,
				actual: userIncorrectVersion.Version,
			}, "parse"),
		},
		{
			name: "ExtraFields",
			input: []byte(fmt.Sprintf(
				"version: %s\nextra: fields", SupportedUserConfigVersion)),
			expError: errors.WithContext(
				errors.NewFriendlyError(parseConfigErrTemplate, mockConfigPath,
					errors.New("error unmarshaling JSON: while decoding JSON: "+
						`json: unknown field "extra"`)),
				"parse"),
		},
		{
			name:     "DefaultsFromUsernameFile",
			input:    []byte("version: v1alpha1\n"),
			username: "ethan\n",
			expConfig: User{
				Version: SupportedUserConfigVersion,
				User:    "ethan",
				Path:    "/home/synccode",
			},
		},
		{
			name:  "RelativePath",
			input: []byte("user: kevin\npath: sync\n"),
			expConfig: User{
				Version: InitialUserConfigVersion,
				User:    "kevin",
				Path:    "/home/sync",
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			mockFs(t)
			require.NoError(t, afero.WriteFile(fs, mockConfigPath, test.input, 0644))
			if test.username != "" {
				require.NoError(t, afero.WriteFile(fs, mockUsernamePath,
					[]byte(test.username), 0644))
			}

			config, err := ParseUser()
			assert.Equal(t, test.expConfig, config)
			assert.Equal(t, test.expError, err)
		})
	}
}

func TestParseUserNoConfigFile(t *testing.T) {
	mockFs(t)

	// Without a config file or username file, the user is told how to fix it.
	_, err := ParseUser()
	assert.Error(t, err)
	_, isFriendly := errors.RootCause(err).(errors.FriendlyError)
	assert.True(t, isFriendly)

	require.NoError(t, afero.WriteFile(fs, mockUsernamePath, []byte("   \n"), 0644))
	_, err = ParseUser()
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, mockUsernamePath, []byte("ethan"), 0644))
	config, err := ParseUser()
	assert.NoError(t, err)
	assert.Equal(t, User{
		Version: SupportedUserConfigVersion,
		User:    "ethan",
		Path:    "/home/synccode",
	}, config)
}

func TestParseWrittenUser(t *testing.T) {
	mockFs(t)

	user := User{
		User:            "kevin",
		Path:            "/sync",
		DownloadCommand: "synccode-download",
	}

	// Write the user to disk, and assert that we get the same user config when
	// we parse it.
	assert.NoError(t, WriteUser(user))

	parsed, err := ParseUser()
	assert.NoError(t, err)

	user.Version = SupportedUserConfigVersion
	assert.Equal(t, user, parsed)
}

func TestParseUserPrintableErrors(t *testing.T) {
	mockFs(t)

	require.NoError(t, afero.WriteFile(fs, mockConfigPath, []byte("version: v2\n"), 0644))
	_, err := ParseUser()
	assert.Equal(t, `The synccode user config "/home/.synccode.yaml" has version "v2", `+
		`but this release of synccode only reads version "v1alpha1".`+"\n"+
		"Run `synccode config` to rewrite it.", errors.GetPrintableMessage(err))

	require.NoError(t, afero.WriteFile(fs, mockConfigPath, []byte("user: [kevin]\n"), 0644))
	_, err = ParseUser()
	msg := errors.GetPrintableMessage(err)
	assert.Contains(t, msg, `The synccode user config "/home/.synccode.yaml" could not be parsed.`)
	assert.Contains(t, msg, "Parser error: ")
}
