package editor

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattsolo1/grove-editor/pkg/models"
	"github.com/spf13/afero"
)

// Engine is the text-editing collaborator owned by a tab.
type Engine interface {
	Load(path string) error
	Persist(path string) error
	ApplyConfig(cfg models.Config)
	ModeLabel() string
	Mode() Mode
	SetMode(m Mode)
	InsertText(s string)
	DeleteBackward()
	Text() string
	Lines(width int) []string
	Wrap() bool
	Dirty() bool
}

// Factory builds a fresh engine for a new tab.
type Factory func() Engine

// BufferFactory returns a Factory producing Buffers backed by fs.
func BufferFactory(fs afero.Fs) Factory {
	return func() Engine {
		return NewBuffer(fs)
	}
}

// Buffer is a plain in-memory text engine. It starts in normal mode.
type Buffer struct {
	fs    afero.Fs
	text  string
	mode  Mode
	wrap  bool
	dirty bool
}

// NewBuffer creates an empty buffer reading and writing through fs.
func NewBuffer(fs afero.Fs) *Buffer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Buffer{fs: fs, mode: Mode{Kind: ModeNormal}}
}

func (b *Buffer) Load(path string) error {
	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return &IOError{Op: "load", Path: path, Err: err}
	}
	b.text = string(data)
	b.dirty = false
	return nil
}

func (b *Buffer) Persist(path string) error {
	if err := afero.WriteFile(b.fs, path, []byte(b.text), 0644); err != nil {
		return &IOError{Op: "persist", Path: path, Err: err}
	}
	b.dirty = false
	return nil
}

func (b *Buffer) ApplyConfig(cfg models.Config) {
	b.wrap = cfg.Wrap
}

func (b *Buffer) ModeLabel() string { return b.mode.Label() }
func (b *Buffer) Mode() Mode        { return b.mode }
func (b *Buffer) SetMode(m Mode)    { b.mode = m }
func (b *Buffer) Text() string      { return b.text }
func (b *Buffer) Wrap() bool        { return b.wrap }
func (b *Buffer) Dirty() bool       { return b.dirty }

// InsertText appends s. In command and search mode the text extends the
// pending value instead of the document.
func (b *Buffer) InsertText(s string) {
	switch b.mode.Kind {
	case ModeCommand, ModeSearch:
		b.mode.Value += s
	default:
		b.text += s
		b.dirty = true
	}
}

// DeleteBackward removes the last rune of the pending value or the document.
func (b *Buffer) DeleteBackward() {
	switch b.mode.Kind {
	case ModeCommand, ModeSearch:
		b.mode.Value = trimLastRune(b.mode.Value)
	default:
		if b.text == "" {
			return
		}
		b.text = trimLastRune(b.text)
		b.dirty = true
	}
}

func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// Lines splits the text for display. With wrapping enabled long lines are
// broken every width cells; otherwise they are cut at width.
func (b *Buffer) Lines(width int) []string {
	raw := strings.Split(b.text, "\n")
	if width <= 0 {
		return raw
	}
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if ansi.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		if !b.wrap {
			out = append(out, ansi.Truncate(line, width, ""))
			continue
		}
		out = append(out, strings.Split(ansi.Hardwrap(line, width, true), "\n")...)
	}
	return out
}

// Handle gives exclusive access to an engine.
type Handle struct {
	mu     sync.Mutex
	engine Engine
}

// NewHandle wraps engine.
func NewHandle(engine Engine) *Handle {
	return &Handle{engine: engine}
}

// With runs fn while holding the engine. The engine is released on every exit
// path. Borrowing a handle that is already held returns ErrBusy.
func (h *Handle) With(fn func(Engine) error) error {
	if !h.mu.TryLock() {
		return ErrBusy
	}
	defer h.mu.Unlock()
	return fn(h.engine)
}
