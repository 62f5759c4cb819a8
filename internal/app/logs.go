package app

import (
	"fmt"
	"io"

	"github.com/five82/statebox/internal/config"
	"github.com/five82/statebox/internal/logtail"
)

// RunLogs prints the lines of the configured log file that pass f.
func RunLogs(w io.Writer, opts Options, f logtail.Filter) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.LogFile == "" {
		return fmt.Errorf("no log file configured")
	}

	lines, err := logtail.Read(cfg.LogFile, f)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
