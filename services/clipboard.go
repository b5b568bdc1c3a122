package services

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

type Clipboard interface {
	Copy(text string) error
}

// ClipboardError reports that the system clipboard could not be written.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard unavailable: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// systemClipboard opens the OS clipboard for the duration of a single write.
type systemClipboard struct{}

func (systemClipboard) Copy(text string) error {
	if err := clipboardWriteAll(text); err != nil {
		return &ClipboardError{Err: err}
	}
	return nil
}
