package paths

import (
	"fmt"
	"io"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/synccode/cmd/util"
	"github.com/sidkik/synccode/pkg/config"
	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/synccode"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	getenv                    = os.Getenv
	parseUserConfig           = config.ParseUser
	homedirExpand             = homedir.Expand
)

// New creates a new `paths` command.
func New() *cobra.Command {
	var envName, basePath string
	cmd := &cobra.Command{
		Use:   "paths [repo...]",
		Short: "Print the search path entries of the synced repositories",
		Long: "Print the directories of the synced repositories that should be\n" +
			"on the module search path. A repository can list them in its\n" +
			synccode.SubPathsFile + " file, otherwise its root is used.\n\n" +
			"With --env, the directories are appended to the current value of\n" +
			"the environment variable, and printed as NAME=value.",
		Run: func(_ *cobra.Command, repos []string) {
			if err := run(basePath, envName, repos); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&envName, "env", "",
		"The environment variable to extend, e.g. PYTHONPATH.")
	cmd.Flags().StringVar(&basePath, "path", "",
		"The directory repositories are synced into. Defaults to the user config.")
	return cmd
}

func run(basePath, envName string, repos []string) error {
	if basePath == "" {
		basePath = config.DefaultBasePath
		if cfg, err := parseUserConfig(); err == nil {
			basePath = cfg.Path
		} else {
			log.WithError(err).Debug("Failed to read user config. Using the default path.")
		}
	}

	basePath, err := homedirExpand(basePath)
	if err != nil {
		return errors.WithContext(err, "expand path")
	}

	// An empty list of arguments means every repository.
	if len(repos) == 0 {
		repos = nil
	}

	searchPath := synccode.NewSearchPath()
	if envName != "" {
		searchPath = synccode.ParseSearchPath(getenv(envName))
	}

	if err := synccode.RegisterPaths(basePath, repos, searchPath); err != nil {
		return errors.WithContext(err, "register paths")
	}

	if envName != "" {
		fmt.Fprintf(stdout, "%s=%s\n", envName, searchPath)
		return nil
	}

	for _, path := range searchPath.Paths() {
		fmt.Fprintln(stdout, path)
	}
	return nil
}
