package synccode

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/synccode/pkg/errors"
)

func TestCommandDownloader(t *testing.T) {
	ctx := context.Background()

	output, err := CommandDownloader{Command: "echo"}.Download(ctx, "user", "repo", "/sync/repo")
	assert.NoError(t, err)
	assert.Equal(t, "download-repo user repo /sync/repo\n", string(output))

	_, err = CommandDownloader{Command: "false"}.Download(ctx, "user", "repo", "/sync/repo")
	assert.EqualError(t, err, `run "false download-repo user repo /sync/repo": exit status 1`)
}

func TestDownloadEnv(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Cleanup(func() {
		osExecutable = os.Executable
	})

	osExecutable = func() (string, error) {
		return "/usr/local/bin/synccode", nil
	}
	assert.Equal(t, []string{
		"HOME=/home/user",
		"PATH=/usr/bin:/bin",
		"SYNCCODE_EXECUTABLE=/usr/local/bin/synccode",
	}, downloadEnv())

	osExecutable = func() (string, error) {
		return "", errors.New("unsupported")
	}
	assert.Equal(t, []string{
		"HOME=/home/user",
		"PATH=/usr/bin:/bin",
	}, downloadEnv())
}
