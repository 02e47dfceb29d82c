package repos

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/synccode/cmd/util"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `repos` command.
func New() *cobra.Command {
	var opts util.MonitorOptions
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List the repositories that were uploaded",
		Run: func(cmd *cobra.Command, _ []string) {
			m, err := opts.NewMonitor(cmd.Context())
			if err != nil {
				util.HandleFatalError(err)
			}
			defer m.Close()

			for _, repo := range m.Repos() {
				fmt.Fprintln(stdout, repo)
			}
		},
	}
	opts.AddFlags(cmd)
	return cmd
}
