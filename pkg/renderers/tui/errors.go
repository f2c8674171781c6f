package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNotSubmitted is returned when the user declines the final review.
	ErrNotSubmitted = errors.New("tui: submission declined")
	// ErrNoComponent is returned when Fill is called without a component.
	ErrNoComponent = errors.New("tui: component is required")
)
