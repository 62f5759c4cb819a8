package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/statebox/internal/app"
)

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trace",
		Short: "Run a scripted series of writes and report which consumers refreshed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunTrace(cmd.Context(), cmd.OutOrStdout(), rootOpts.appOptions(0))
		},
	}
}
