package ui

import "time"

// Layout constants.
const (
	// LayoutCompactWidth is the threshold below which panes stack in one column.
	LayoutCompactWidth = 80

	// DefaultPaneWidth is used before the first WindowSizeMsg arrives.
	DefaultPaneWidth = 36

	// MaxListLines caps how many history entries or todos a pane shows.
	MaxListLines = 8
)

// Timing constants.
const (
	// MinTickInterval bounds how fast the ticker may write to the store.
	MinTickInterval = 100 * time.Millisecond
)
