package synccode

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/synccode/pkg/config"
	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
	"github.com/sidkik/synccode/pkg/objstore/backends"
)

// PollInterval is how long CheckForUpdates waits between checks when it's
// waiting for changes.
const PollInterval = time.Second

// Monitor downloads the repositories of a single user whenever their
// markers change.
type Monitor struct {
	user      string
	localPath string
	config    config.SyncCode
	repos     []string
	record    SyncRecord

	client       objstore.Client
	downloader   Downloader
	clock        clockwork.Clock
	log          *logrus.Logger
	verbose      bool
	pollInterval time.Duration
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithClient sets the object store client. By default, the client is
// created from the local config.
func WithClient(client objstore.Client) Option {
	return func(m *Monitor) {
		m.client = client
	}
}

// WithDownloader sets the Downloader. By default, DefaultDownloadCommand is
// run.
func WithDownloader(downloader Downloader) Option {
	return func(m *Monitor) {
		m.downloader = downloader
	}
}

// WithClock sets the clock used to wait between polls.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Monitor) {
		m.clock = clock
	}
}

// WithLogger sets the logger that progress and errors are written to.
func WithLogger(log *logrus.Logger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

// WithVerbose sets whether the downloader's output is logged. It defaults
// to true.
func WithVerbose(verbose bool) Option {
	return func(m *Monitor) {
		m.verbose = verbose
	}
}

// WithPollInterval overrides PollInterval.
func WithPollInterval(interval time.Duration) Option {
	return func(m *Monitor) {
		m.pollInterval = interval
	}
}

// New creates a Monitor for the repositories that `user` uploaded. The
// repositories are downloaded into subdirectories of `localPath`, which must
// contain the `_config` file.
func New(ctx context.Context, user, localPath string, opts ...Option) (*Monitor, error) {
	m := &Monitor{
		user:         user,
		localPath:    localPath,
		record:       NewSyncRecord(),
		clock:        clockwork.NewRealClock(),
		log:          logrus.StandardLogger(),
		verbose:      true,
		pollInterval: PollInterval,
	}
	for _, opt := range opts {
		opt(m)
	}

	cfg, err := config.ReadSyncCode(fs, localPath)
	if err != nil {
		return nil, errors.WithContext(err, "parse config")
	}
	m.config = cfg

	ownsClient := m.client == nil
	if ownsClient {
		m.client, err = backends.New(ctx, cfg)
		if err != nil {
			return nil, errors.WithContext(err, "create object store client")
		}
	}

	if m.downloader == nil {
		m.downloader = CommandDownloader{Command: DefaultDownloadCommand}
	}

	m.repos, err = DiscoverRepos(ctx, m.client, cfg.Prefix, user)
	if err != nil {
		if ownsClient {
			m.client.Close()
		}
		return nil, errors.WithContext(err, "discover repos")
	}

	m.log.WithFields(logrus.Fields{
		"user":  user,
		"store": m.client.String(),
		"repos": m.repos,
	}).Debug("Discovered synccode repos")
	return m, nil
}

// Close closes the object store client, including one set by WithClient.
// The Monitor can't be used afterwards.
func (m *Monitor) Close() error {
	if err := m.client.Close(); err != nil {
		return errors.WithContext(err, "close object store client")
	}
	return nil
}

// User returns the user whose repositories are monitored.
func (m *Monitor) User() string {
	return m.user
}

// LocalPath returns the directory that repositories are downloaded into.
func (m *Monitor) LocalPath() string {
	return m.localPath
}

// Bucket returns the bucket from the local config.
func (m *Monitor) Bucket() string {
	return m.config.Bucket
}

// Prefix returns the prefix from the local config.
func (m *Monitor) Prefix() string {
	return m.config.Prefix
}

// Repos returns the repositories that were discovered when the Monitor was
// created.
func (m *Monitor) Repos() []string {
	return append([]string(nil), m.repos...)
}

// CheckForUpdates downloads every repository whose marker changed, one at a
// time, in the order they were discovered. The first failure aborts the
// check, and the remaining repositories are left for the next call.
//
// If `wait` is true and nothing changed, CheckForUpdates polls until
// something does, or `ctx` is cancelled. Errors are never retried.
func (m *Monitor) CheckForUpdates(ctx context.Context, wait bool) error {
	if len(m.repos) == 0 {
		m.log.WithField("user", m.user).Warnf("No synccode repos found for "+
			"user %s. Upload some, or restart to discover them.", m.user)
		return nil
	}

	for {
		if err := m.refreshUploadedConfig(ctx); err != nil {
			return err
		}

		var toUpdate []string
		for _, repo := range m.repos {
			shouldUpdate, err := m.ShouldUpdate(ctx, repo)
			if err != nil {
				return errors.WithContext(err, "check "+repo)
			}

			if shouldUpdate {
				toUpdate = append(toUpdate, repo)
			}
		}

		if len(toUpdate) == 0 {
			if !wait {
				return nil
			}

			select {
			case <-ctx.Done():
				return errors.WithContext(ctx.Err(), "wait for changes")
			case <-m.clock.After(m.pollInterval):
			}
			continue
		}

		m.log.Infof("Downloading synccode changes for %s", strings.Join(toUpdate, ", "))
		for _, repo := range toUpdate {
			m.log.WithField("repo", repo).Infof("Update detected for repo %s", repo)
			if err := m.Download(ctx, repo); err != nil {
				return err
			}
		}
		m.log.Info("All synccode changes downloaded successfully")
		m.log.WithField("synced", m.record.Repos()).Debug("Updated sync record")
		return nil
	}
}

// refreshUploadedConfig copies the uploader's config into the local target
// path, so that scripts can reference it.
func (m *Monitor) refreshUploadedConfig(ctx context.Context) error {
	contents, err := m.client.Read(ctx, uploadedConfigKey(m.config.Prefix, m.user))
	if err != nil {
		if errors.Is(err, objstore.ErrNotExist) {
			return errors.UploadedConfigNotFound{User: m.user}
		}
		return errors.WithContext(err, "read uploaded config")
	}

	text := strings.Replace(string(contents), "\r\n", "\n", -1)
	path := filepath.Join(m.localPath, UploaderConfigFile)
	if err := afero.WriteFile(fs, path, []byte(text), 0644); err != nil {
		return errors.WithContext(err, "write uploaded config")
	}
	return nil
}

func (m *Monitor) repoPath(repo string) string {
	return filepath.Join(m.localPath, repo)
}
