package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/statebox/internal/app"
	"github.com/five82/statebox/internal/logtail"
)

// NewLogsCommand creates the logs command.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	var filter logtail.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent store events from the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunLogs(cmd.OutOrStdout(), rootOpts.appOptions(0), filter)
		},
	}

	cmd.Flags().IntVarP(&filter.Lines, "lines", "n", 40, "number of lines to show (0 for all)")
	cmd.Flags().StringVar(&filter.Event, "event", "", "only show one event type, e.g. store.set")
	cmd.Flags().StringVar(&filter.Level, "level", "", "minimum level (debug, info, warn, error)")

	return cmd
}
