package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/statebox/internal/app"
)

// NewUICommand creates the ui command.
func NewUICommand(rootOpts *RootOptions) *cobra.Command {
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Run the terminal UI",
		Long: `Run the terminal UI against a fresh store.

Each pane is bound to one slice of the state and shows how many times it
re-rendered, so writes that leave a slice untouched are easy to spot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), rootOpts.appOptions(tick))
		},
	}

	cmd.Flags().DurationVar(&tick, "tick", 0, "ticker interval (overrides tick_seconds; negative disables)")

	return cmd
}
