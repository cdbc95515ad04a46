package models

// ProductName is appended to every window title.
const ProductName = "Grove Editor"

// Config holds the options broadcast to every open document.
type Config struct {
	// Wrap enables soft line wrapping in the editing engine.
	Wrap bool `json:"wrap" yaml:"wrap"`
}

// DefaultConfig returns the in-memory defaults used when nothing overrides them.
func DefaultConfig() Config {
	return Config{Wrap: false}
}
