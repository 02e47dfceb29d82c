package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/synccode/cmd/check"
	configCmd "github.com/sidkik/synccode/cmd/config"
	"github.com/sidkik/synccode/cmd/paths"
	"github.com/sidkik/synccode/cmd/repos"
	"github.com/sidkik/synccode/cmd/util"
	"github.com/sidkik/synccode/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "SYNCCODE_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:          "synccode",
		Short:        "Download repositories uploaded with synccode",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		check.New(),
		configCmd.New(),
		paths.New(),
		repos.New(),
		version.New(),
	)

	// Interrupting stops `check --wait`.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		util.HandleFatalError(err)
	}
}
