package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-editor/pkg/tabs"
	"github.com/mattsolo1/grove-editor/pkg/tree"
)

// ScriptError reports a line of a replay script that could not be parsed.
type ScriptError struct {
	Line int
	Text string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ParseScript reads one command per line. Blank lines and lines starting
// with '#' are skipped. Paths run to the end of the line.
//
//	new
//	open [PATH]
//	save
//	save-as PATH
//	activate ID
//	close [ID]
//	select ID
//	wrap on|off
func ParseScript(r io.Reader) ([]tea.Msg, error) {
	var msgs []tea.Msg
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		msg, err := parseCommand(text)
		if err != nil {
			return nil, &ScriptError{Line: line, Text: text, Err: err}
		}
		msgs = append(msgs, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return msgs, nil
}

func parseCommand(text string) (tea.Msg, error) {
	verb, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "new":
		return NewMsg{}, noArg(arg)
	case "open":
		if arg == "" {
			return RequestOpenDialogMsg{}, nil
		}
		return OpenPathMsg{Path: arg}, nil
	case "save":
		return SaveMsg{}, noArg(arg)
	case "save-as":
		if arg == "" {
			return nil, fmt.Errorf("save-as needs a path")
		}
		return SaveAsMsg{Path: arg}, nil
	case "activate":
		id, err := parseID(arg)
		return ActivateTabMsg{ID: tabs.ID(id)}, err
	case "close":
		if arg == "" {
			return CloseTabMsg{}, nil
		}
		id, err := parseID(arg)
		return CloseTabMsg{ID: tabs.ID(id)}, err
	case "select":
		id, err := parseID(arg)
		return SelectNavEntryMsg{ID: tree.ID(id)}, err
	case "wrap":
		switch arg {
		case "on", "true":
			return SetWrapMsg{Wrap: true}, nil
		case "off", "false":
			return SetWrapMsg{Wrap: false}, nil
		}
		return nil, fmt.Errorf("wrap expects on or off")
	}
	return nil, fmt.Errorf("unknown command %q", verb)
}

func noArg(arg string) error {
	if arg != "" {
		return fmt.Errorf("unexpected argument %q", arg)
	}
	return nil
}

func parseID(arg string) (uint64, error) {
	if arg == "" {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
