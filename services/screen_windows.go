//go:build windows

package services

import (
	"io"
	"os/exec"
)

type clsScreen struct {
	out io.Writer
}

func newPlatformScreen(out io.Writer) Screen {
	return clsScreen{out: out}
}

func (s clsScreen) Clear() error {
	cmd := exec.Command("cmd", "/c", "cls")
	cmd.Stdout = s.out
	return cmd.Run()
}
