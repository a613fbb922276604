package input

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macroplay/internal/arduino"
)

type recordingBackend struct {
	events    []string
	clipboard string
	failKey   string
}

func (r *recordingBackend) MoveTo(x, y int) error {
	r.events = append(r.events, fmt.Sprintf("move %d,%d", x, y))
	return nil
}

func (r *recordingBackend) Click(button string, count int) error {
	r.events = append(r.events, fmt.Sprintf("click %s %d", button, count))
	return nil
}

func (r *recordingBackend) KeyPress(key string) error {
	if key == r.failKey {
		return errors.New("key stuck")
	}
	r.events = append(r.events, "press "+key)
	return nil
}

func (r *recordingBackend) KeyRelease(key string) error {
	r.events = append(r.events, "release "+key)
	return nil
}

func (r *recordingBackend) Position() (int, int, error) { return 0, 0, nil }

func (r *recordingBackend) SetClipboard(text string) error {
	r.clipboard = text
	r.events = append(r.events, "clipboard")
	return nil
}

func TestPasteSequence(t *testing.T) {
	b := &recordingBackend{}
	require.NoError(t, Paste(b, "ctrl", "привет, мир"))

	assert.Equal(t, "привет, мир", b.clipboard)
	assert.Equal(t, []string{"clipboard", "press ctrl", "press v", "release v", "release ctrl"}, b.events)
}

func TestPasteDefaultModifier(t *testing.T) {
	b := &recordingBackend{}
	require.NoError(t, Paste(b, "", "x"))
	assert.Equal(t, "press "+DefaultPasteModifier(), b.events[1])
}

func TestPasteStopsOnError(t *testing.T) {
	b := &recordingBackend{failKey: "v"}
	err := Paste(b, "ctrl", "x")
	require.Error(t, err)
	assert.Equal(t, []string{"clipboard", "press ctrl"}, b.events)
}

func TestRobotKeyAliases(t *testing.T) {
	assert.Equal(t, "ctrl", robotKey("Ctrl"))
	assert.Equal(t, "lctrl", robotKey("ctrl_l"))
	assert.Equal(t, "enter", robotKey(" Return "))
	assert.Equal(t, "a", robotKey("a"))
}

type scriptedPort struct {
	bytes.Buffer
	in *strings.Reader
}

func (p *scriptedPort) Read(b []byte) (int, error) { return p.in.Read(b) }

func TestArduinoBackendNormalizesKeys(t *testing.T) {
	port := &scriptedPort{in: strings.NewReader("received\nreceived\n")}
	b := NewArduinoBackend(arduino.NewController(port))

	require.NoError(t, b.KeyPress("Control"))
	require.NoError(t, b.KeyRelease("ESC"))
	assert.Equal(t, "key_down:ctrl\nkey_up:escape\n", port.String())
}
