package synccode

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sidkik/synccode/pkg/errors"
)

const (
	// DefaultDownloadCommand is the executable that's run to download a
	// repository if no other command is configured. It's looked up in PATH.
	DefaultDownloadCommand = "synccode-download"

	// ExecutableEnvKey is set in the download command's environment to the
	// path of the running synccode binary.
	ExecutableEnvKey = "SYNCCODE_EXECUTABLE"
)

// Downloader downloads the latest uploaded version of a repository into
// `localPath`. It's expected to also write the repository's marker file. The
// returned output is shown to the user.
type Downloader interface {
	Download(ctx context.Context, user, repo, localPath string) ([]byte, error)
}

// CommandDownloader downloads repositories by running
// `<Command> download-repo <user> <repo> <localPath>`.
type CommandDownloader struct {
	Command string
}

// Download runs the download command and waits for it to exit. The command
// only inherits HOME and PATH from the current environment.
func (d CommandDownloader) Download(ctx context.Context, user, repo, localPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, d.Command, "download-repo", user, repo, localPath)
	cmd.Env = downloadEnv()

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, errors.WithContext(err, fmt.Sprintf("run %q", strings.Join(cmd.Args, " ")))
	}
	return output, nil
}

func downloadEnv() []string {
	env := []string{
		"HOME=" + os.Getenv("HOME"),
		"PATH=" + os.Getenv("PATH"),
	}

	if executable, err := osExecutable(); err == nil {
		env = append(env, ExecutableEnvKey+"="+executable)
	} else {
		logrus.WithError(err).Debug("Failed to get path of the synccode executable")
	}
	return env
}

// Download downloads `repo` and records the revision of its marker. The
// revision is fetched after the download finishes so that it matches the
// downloaded files.
func (m *Monitor) Download(ctx context.Context, repo string) error {
	log := m.log.WithFields(logrus.Fields{"user": m.user, "repo": repo})

	output, err := m.downloader.Download(ctx, m.user, repo, m.repoPath(repo))
	if err != nil {
		log.WithError(err).Errorf("Error from running synccode download command:\n---\n%s",
			printable(output))
		return errors.DownloadFailed{Repo: repo, Output: output, Err: err}
	}

	if m.verbose && len(output) != 0 {
		log.Info(printable(output))
	}

	marker, err := m.getMarker(ctx, repo)
	if err != nil {
		return err
	}
	m.record.Synced(repo, marker.Revision)
	return nil
}

func printable(output []byte) string {
	return strings.ToValidUTF8(string(output), "�")
}
