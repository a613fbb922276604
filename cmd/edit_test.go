package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macroplay/internal/command"
)

func parsed(t *testing.T, args ...string) (*commandFlags, *cobra.Command) {
	t.Helper()
	f := &commandFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return f, cmd
}

func TestApplyKeepsUnchangedFields(t *testing.T) {
	f, cmd := parsed(t, "--order", "5")
	fields := command.FieldsOf(command.NewMouseMoveTo(10, 20, 1))
	f.apply(cmd, &fields)

	c, err := command.Build(fields)
	require.NoError(t, err)
	assert.Equal(t, command.NewMouseMoveTo(10, 20, 5), c)
}

func TestApplyTypeChangeDropsOldFields(t *testing.T) {
	f, cmd := parsed(t, "--type", "keyboard_shortcut", "--keys", "ctrl,a")
	fields := command.FieldsOf(command.NewKeyboardInput("Hello", 3))
	f.apply(cmd, &fields)

	c, err := command.Build(fields)
	require.NoError(t, err)
	assert.Equal(t, command.NewKeyboardShortcut([]string{"ctrl", "a"}, 3), c)
}

func TestApplyDefaultClicks(t *testing.T) {
	f, cmd := parsed(t, "--type", "mouse_click")
	fields := command.Fields{Type: "mouse_click"}
	f.apply(cmd, &fields)

	c, err := command.Build(fields)
	require.NoError(t, err)
	assert.Equal(t, 1, c.(command.MouseClick).Clicks)
}

func TestApplyDelay(t *testing.T) {
	f, cmd := parsed(t, "--delay", "0.5")
	fields := command.FieldsOf(command.NewMouseClick(2, 1))
	f.apply(cmd, &fields)

	require.NotNil(t, fields.Delay)
	assert.Equal(t, 0.5, *fields.Delay)
}

func TestParseIndex(t *testing.T) {
	i, err := parseIndex("1", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = parseIndex("2", 2)
	assert.Error(t, err)
	_, err = parseIndex("-1", 2)
	assert.Error(t, err)
	_, err = parseIndex("x", 2)
	assert.Error(t, err)
}
