// Package logtail reads back the slog text log statebox writes while the TUI
// owns the terminal.
//
// Lines can be narrowed to one event type (the msg field, such as
// "store.set" or "scope.create") and to a minimum level. Only the newest
// Filter.Lines matches are kept in memory while scanning, so large logs are
// read in one pass without loading the whole file.
//
// Example usage:
//
//	lines, err := logtail.Read(cfg.LogFile, logtail.Filter{Lines: 40, Event: "store.set"})
//	if err != nil {
//		return err
//	}
//	for _, line := range lines {
//		fmt.Println(line)
//	}
package logtail
