package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/synccode/cmd/util"
	"github.com/sidkik/synccode/pkg/config"
	"github.com/sidkik/synccode/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	stdin           io.Reader = os.Stdin
	parseUserConfig           = config.ParseUser
	parseSyncCode             = config.ParseSyncCode
	writeUserConfig           = config.WriteUser
	writeSyncCode             = config.WriteSyncCode
	getCurrentUser            = user.Current
	homedirExpand             = homedir.Expand
)

type options struct {
	user config.User
	sync config.SyncCode
}

// New creates a new `config` command.
func New() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the synccode user and bucket configuration",
		Run: func(_ *cobra.Command, _ []string) {
			if err := setupConfig(opts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}

	const promptNote = " Optional: If not set, `synccode config` will interactively prompt."
	cmd.Flags().StringVar(&opts.user.User, "user", "",
		"The user whose repositories are synced."+promptNote)
	cmd.Flags().StringVar(&opts.user.Path, "path", "",
		"The directory to sync repositories into. Defaults to "+config.DefaultBasePath+".")
	cmd.Flags().StringVar(&opts.user.DownloadCommand, "download-command", "",
		"The command that implements `download-repo`.")
	cmd.Flags().StringVar(&opts.sync.Bucket, "bucket", "",
		"The bucket the repositories are uploaded to."+promptNote)
	cmd.Flags().StringVar(&opts.sync.Prefix, "prefix", "",
		"The prefix within the bucket."+promptNote)
	cmd.Flags().StringVar(&opts.sync.Backend, "backend", config.BackendGCS,
		"The object store backend: gcs, s3, minio or local.")
	cmd.Flags().StringVar(&opts.sync.Endpoint, "endpoint", "",
		"The object store endpoint. Required for the minio and local backends.")
	cmd.Flags().StringVar(&opts.sync.Region, "region", "", "The bucket's region.")
	cmd.Flags().BoolVar(&opts.sync.Insecure, "insecure", false,
		"Connect to the minio endpoint without TLS.")

	type getterSpec struct {
		use, short string
		fn         func(config.User) string
	}

	getters := []getterSpec{
		{
			use:   "get-user",
			short: "Get the configured synccode user",
			fn:    func(cfg config.User) string { return cfg.User },
		},
		{
			use:   "get-path",
			short: "Get the directory that repositories are synced into",
			fn:    func(cfg config.User) string { return cfg.Path },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseUserConfig()
				if err != nil {
					util.HandleFatalError(errors.WithContext(err, "read config"))
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

func setupConfig(opts options) error {
	opts, err := generateConfig(opts)
	if err != nil {
		return errors.WithContext(err, "generate config")
	}

	if err := writeUserConfig(opts.user); err != nil {
		return errors.WithContext(err, "write user config")
	}

	syncPath, err := homedirExpand(opts.user.Path)
	if err != nil {
		return errors.WithContext(err, "expand path")
	}

	if err := writeSyncCode(syncPath, opts.sync); err != nil {
		return errors.WithContext(err, "write bucket config")
	}

	fmt.Fprintf(stdout, "Wrote config for %s. Repositories will be synced to %s\n",
		opts.user.User, syncPath)
	return nil
}

func userValidationFn(name string) (string, bool) {
	if name == "" {
		return "The user name can't be empty.", false
	}
	if strings.ContainsAny(name, "/ \t") {
		return "The user name is part of the object keys, so it can't " +
			"contain slashes or whitespace.", false
	}
	return "", true
}

func requiredValidationFn(value string) (string, bool) {
	if value == "" {
		return "This field is required.", false
	}
	return "", true
}

type prompt struct {
	helpString, prompt, defaultAnswer, currAnswer string
	field                                         *string
	validationFn                                  func(string) (string, bool)
}

// generateConfig prompts for any required fields that weren't set by flags.
// The current config, if any, is offered as an answer.
func generateConfig(opts options) (options, error) {
	currUser, err := parseUserConfig()
	if err != nil {
		log.WithError(err).Debug("Failed to read current user config")
	}

	if opts.user.Path == "" {
		opts.user.Path = currUser.Path
	}
	if opts.user.Path == "" {
		opts.user.Path = config.DefaultBasePath
	}

	syncPath, err := homedirExpand(opts.user.Path)
	if err != nil {
		return options{}, errors.WithContext(err, "expand path")
	}

	currSync, err := parseSyncCode(syncPath)
	if err != nil {
		log.WithError(err).Debug("Failed to read current bucket config")
	}

	var prompts []prompt
	if opts.user.User == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the name you upload repositories under.\n" +
				"It's the directory directly under the prefix in the bucket.",
			prompt:        "synccode user",
			defaultAnswer: guessUser(),
			currAnswer:    currUser.User,
			field:         &opts.user.User,
			validationFn:  userValidationFn,
		})
	}

	if opts.sync.Bucket == "" {
		prompts = append(prompts, prompt{
			helpString:   "Enter the bucket that repositories are uploaded to.",
			prompt:       "Bucket",
			currAnswer:   currSync.Bucket,
			field:        &opts.sync.Bucket,
			validationFn: requiredValidationFn,
		})
	}

	if opts.sync.Prefix == "" {
		prompts = append(prompts, prompt{
			helpString:   "Enter the prefix within the bucket.",
			prompt:       "Prefix",
			currAnswer:   currSync.Prefix,
			field:        &opts.sync.Prefix,
			validationFn: requiredValidationFn,
		})
	}

	for _, p := range prompts {
		for {
			resp, err := promptUser(p.helpString, p.prompt, p.defaultAnswer, p.currAnswer)
			if err != nil {
				return options{}, errors.WithContext(err, "read response")
			}

			validationErr, ok := p.validationFn(resp)
			if ok {
				*p.field = resp
				break
			}
			fmt.Fprintln(stdout, validationErr)
		}
	}
	return opts, nil
}

func guessUser() string {
	currUser, err := getCurrentUser()
	if err != nil {
		log.WithError(err).Info("Failed to guess user")
		return ""
	}
	return currUser.Username
}

// promptUser asks the user to pick one of the suggested answers, or to type
// their own.
func promptUser(helpString, prompt, defaultAnswer, currAnswer string) (string, error) {
	// Separate the fields with an empty line.
	defer fmt.Fprintln(stdout)

	var choices []string
	if defaultAnswer != "" {
		choices = append(choices, defaultAnswer)
	}
	if currAnswer != "" && currAnswer != defaultAnswer {
		choices = append(choices, currAnswer)
	}

	fmt.Fprintf(stdout, "%s\n%s:\n", helpString, prompt)
	reader := bufio.NewReader(stdin)
	readLine := func() (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimRight(line, "\n"), nil
	}

	if len(choices) != 0 {
		manualChoice := len(choices) + 1
		fmt.Fprintln(stdout)
		for i, choice := range choices {
			if i == 0 {
				choice += " (recommended)"
			}
			fmt.Fprintf(stdout, "\t%d. %s\n", i+1, choice)
		}
		fmt.Fprintf(stdout, "\t%d. (Enter manually)\n\n", manualChoice)

		for {
			fmt.Fprintf(stdout, "Please choose one [1-%d]: ", manualChoice)
			line, err := readLine()
			if err != nil {
				return "", err
			}

			// An empty response picks the recommended choice.
			choice := 1
			if line != "" {
				choice, err = strconv.Atoi(line)
				if err != nil || choice < 1 || choice > manualChoice {
					continue
				}
			}

			if choice != manualChoice {
				return choices[choice-1], nil
			}
			break
		}
	}

	fmt.Fprint(stdout, "Please enter manually: ")
	return readLine()
}
