package ui

import "time"

// Fixed chrome around the frame area.
const (
	HeaderHeight = 1
	FooterHeight = 1
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops the
	// poll age and the footer shows fewer hints.
	LayoutCompactWidth = 80

	// HelpModalWidth is the width of the help dialog.
	HelpModalWidth = 48
)

// LogTailLines is how many log lines the activity overlay keeps.
const LogTailLines = 500

// URLInputLimit caps the length of a typed manifest URL.
const URLInputLimit = 2048

// DefaultUIInterval is the default UI refresh interval.
const DefaultUIInterval = time.Second
