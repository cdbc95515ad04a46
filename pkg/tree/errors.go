package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownID is returned for ids that are no longer present in the tree.
	ErrUnknownID = errors.New("unknown navigation entry")

	// ErrNotFolder is returned when a folder operation targets a file.
	ErrNotFolder = errors.New("not a folder")

	// ErrInvalidProjectRoot is returned when a project is opened on a non-directory.
	ErrInvalidProjectRoot = errors.New("project root is not a directory")
)

// FilesystemError reports a failed stat or directory enumeration.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
