//go:build !windows

package services

import "io"

const clearSequence = "\x1b[H\x1b[2J"

type ansiScreen struct {
	out io.Writer
}

func newPlatformScreen(out io.Writer) Screen {
	return ansiScreen{out: out}
}

func (s ansiScreen) Clear() error {
	_, err := io.WriteString(s.out, clearSequence)
	return err
}
