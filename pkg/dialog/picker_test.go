package dialog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	p := Static{Open: "/tmp/a.txt"}

	path, ok, err := Pick(ctx, p, KindOpen)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/a.txt", path)

	_, ok, err = Pick(ctx, p, KindSave)
	require.NoError(t, err)
	assert.False(t, ok)

	boom := errors.New("boom")
	_, ok, err = Static{Open: "/x", Err: boom}.PickFile(ctx)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chooser.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestCommandReturnsChosenPath(t *testing.T) {
	p := NewCommand("echo /home/user/notes.md", writeScript(t, "echo /home/user/out.md"), nil)

	path, ok, err := p.PickFile(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/home/user/notes.md", path)

	path, ok, err = p.PickSaveFile(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/home/user/out.md", path)
}

func TestCommandCancelled(t *testing.T) {
	tests := []struct {
		name    string
		command string
	}{
		{"exit status one", writeScript(t, "exit 1")},
		{"empty output", writeScript(t, "exit 0")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok, err := NewCommand(tt.command, "", nil).PickFile(context.Background())
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, path)
		})
	}
}

func TestCommandFailures(t *testing.T) {
	_, _, err := NewCommand(writeScript(t, "exit 2"), "", nil).PickFile(context.Background())
	assert.Error(t, err)

	_, _, err = NewCommand("", "", nil).PickSaveFile(context.Background())
	assert.ErrorIs(t, err, ErrNoCommand)

	_, _, err = NewCommand(filepath.Join(t.TempDir(), "missing"), "", nil).PickFile(context.Background())
	assert.Error(t, err)
}
