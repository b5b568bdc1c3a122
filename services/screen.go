package services

import "io"

// Screen clears the operator's terminal.
type Screen interface {
	Clear() error
}

// NewScreen returns the clearing strategy for the host platform.
func NewScreen(out io.Writer) Screen {
	return newPlatformScreen(out)
}
