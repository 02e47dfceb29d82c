package check

import (
	"github.com/spf13/cobra"

	"github.com/sidkik/synccode/cmd/util"
	"github.com/sidkik/synccode/pkg/errors"
)

// New creates a new `check` command.
func New() *cobra.Command {
	var opts util.MonitorOptions
	var wait bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Download the repositories that changed since they were last synced",
		Long: "Check the uploaded repositories for changes, and download the ones\n" +
			"that changed. With --wait, keep polling until something changes.",
		Run: func(cmd *cobra.Command, _ []string) {
			m, err := opts.NewMonitor(cmd.Context())
			if err != nil {
				util.HandleFatalError(err)
			}
			defer m.Close()

			if err := m.CheckForUpdates(cmd.Context(), wait); err != nil {
				util.HandleFatalError(errors.WithContext(err, "check for updates"))
			}
		},
	}
	opts.AddFlags(cmd)
	cmd.Flags().BoolVarP(&wait, "wait", "w", false,
		"Block until at least one repository changes.")
	return cmd
}
