package editor

import "fmt"

// ModeKind is the input mode of an editing engine.
type ModeKind int

const (
	ModePassthrough ModeKind = iota
	ModeNormal
	ModeInsert
	ModeCommand
	ModeSearch
)

// Mode is the current input mode. Value holds the pending command or search
// text; Forwards is only meaningful for searches.
type Mode struct {
	Kind     ModeKind
	Value    string
	Forwards bool
}

// Label renders the mode for the status line. Passthrough and normal mode
// have no label.
func (m Mode) Label() string {
	switch m.Kind {
	case ModeInsert:
		return "-- INSERT --"
	case ModeCommand:
		return fmt.Sprintf(":%s|", m.Value)
	case ModeSearch:
		if m.Forwards {
			return fmt.Sprintf("/%s|", m.Value)
		}
		return fmt.Sprintf("?%s|", m.Value)
	default:
		return ""
	}
}
