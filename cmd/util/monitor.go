package util

import (
	"context"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sidkik/synccode/pkg/config"
	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/synccode"
)

// Mocked for unit testing.
var (
	parseUserConfig = config.ParseUser
	homedirExpand   = homedir.Expand
)

// MonitorOptions are the flags of the commands that build a Monitor. Flags
// that are set take precedence over the user config.
type MonitorOptions struct {
	User            string
	Path            string
	DownloadCommand string
	Quiet           bool
}

// AddFlags registers the options as flags of `cmd`.
func (opts *MonitorOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.User, "user", "",
		"The user whose repositories are synced. Defaults to the user config.")
	cmd.Flags().StringVar(&opts.Path, "path", "",
		"The directory repositories are synced into. Defaults to the user config.")
	cmd.Flags().StringVar(&opts.DownloadCommand, "download-command", "",
		"The command that implements `download-repo`.")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false,
		"Don't print the output of the download command.")
}

// UserConfig merges the flags with the user config. The user config is only
// required if the flags don't set the user.
func (opts MonitorOptions) UserConfig() (config.User, error) {
	cfg, err := parseUserConfig()
	if err != nil {
		if opts.User == "" {
			return config.User{}, errors.WithContext(err, "parse user config")
		}
		cfg = config.User{Path: config.DefaultBasePath}
	}

	if opts.User != "" {
		cfg.User = opts.User
	}
	if opts.Path != "" {
		cfg.Path = opts.Path
	}
	if opts.DownloadCommand != "" {
		cfg.DownloadCommand = opts.DownloadCommand
	}

	cfg.Path, err = homedirExpand(cfg.Path)
	if err != nil {
		return config.User{}, errors.WithContext(err, "expand path")
	}
	return cfg, nil
}

// NewMonitor creates a Monitor according to the flags and user config.
func (opts MonitorOptions) NewMonitor(ctx context.Context) (*synccode.Monitor, error) {
	cfg, err := opts.UserConfig()
	if err != nil {
		return nil, err
	}

	monitorOpts := []synccode.Option{synccode.WithVerbose(!opts.Quiet)}
	if cfg.DownloadCommand != "" {
		monitorOpts = append(monitorOpts, synccode.WithDownloader(
			synccode.CommandDownloader{Command: cfg.DownloadCommand}))
	}

	m, err := synccode.New(ctx, cfg.User, cfg.Path, monitorOpts...)
	if err != nil {
		if _, ok := errors.RootCause(err).(errors.FileNotFound); ok {
			return nil, errors.NewFriendlyError("%s isn't set up for synccode.\n"+
				"Please run `synccode config` to choose the bucket.", cfg.Path)
		}
		return nil, errors.WithContext(err, "create monitor")
	}
	return m, nil
}
