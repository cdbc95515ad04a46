package editor

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a Handle is borrowed while already held.
var ErrBusy = errors.New("editor is busy")

// IOError reports a failed load or persist of a document.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
