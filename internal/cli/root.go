// Package cli defines the statebox command tree.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/statebox/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	PrefsPath  string
	StatePath  string
}

func (o *RootOptions) appOptions(tick time.Duration) app.Options {
	return app.Options{
		ConfigPath: o.ConfigPath,
		PrefsPath:  o.PrefsPath,
		StatePath:  o.StatePath,
		TickEvery:  tick,
	}
}

// NewRootCommand creates the root command for the statebox CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "statebox",
		Short:         "statebox - observable state container demo",
		Long:          "A shared store whose consumers refresh only when the slice they select changes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/statebox/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/statebox/prefs.toml)")
	cmd.PersistentFlags().StringVar(&opts.StatePath, "state", "", "initial state document, .toml or .yaml (overrides config)")

	cmd.AddCommand(NewUICommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))

	return cmd
}
