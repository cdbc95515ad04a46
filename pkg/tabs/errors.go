package tabs

import "errors"

var (
	// ErrUnknownTab is returned for tab ids that are not in the registry.
	ErrUnknownTab = errors.New("unknown tab")

	// ErrNoActiveTab is returned when an operation needs an active tab and there is none.
	ErrNoActiveTab = errors.New("no active tab")

	// ErrNoPath is returned when saving a tab that has never been bound to a file.
	ErrNoPath = errors.New("tab has no path")

	// ErrPathOpen is returned when saving a tab to a file another tab is bound to.
	ErrPathOpen = errors.New("path is open in another tab")
)
