package command

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBuildEachKind(t *testing.T) {
	img := filepath.Join(t.TempDir(), "btn.png")
	require.NoError(t, os.WriteFile(img, []byte("x"), 0o644))

	c, err := Build(Fields{Type: "mouse_move", X: intPtr(10), Y: intPtr(20), Order: 1})
	require.NoError(t, err)
	assert.Equal(t, NewMouseMoveTo(10, 20, 1), c)

	c, err = Build(Fields{Type: "mouse_move", Image: img, Order: 2})
	require.NoError(t, err)
	assert.Equal(t, NewMouseMoveToImage(img, 2), c)

	c, err = Build(Fields{Type: "mouse_click", Clicks: intPtr(2), Order: 3, Delay: floatPtr(0.5)})
	require.NoError(t, err)
	assert.Equal(t, 2, c.(MouseClick).Clicks)
	assert.Equal(t, 0.5, *c.StepInfo().Delay)

	c, err = Build(Fields{Type: "keyboard_input", Text: strPtr("Hello"), Order: 4})
	require.NoError(t, err)
	assert.Equal(t, NewKeyboardInput("Hello", 4), c)

	c, err = Build(Fields{Type: "keyboard_shortcut", Keys: []string{" ctrl", "a ", ""}, Order: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl", "a"}, c.(KeyboardShortcut).Keys)
}

func TestBuildRejects(t *testing.T) {
	cases := []struct {
		name  string
		f     Fields
		field string
	}{
		{"unknown type", Fields{Type: "scroll"}, "type"},
		{"move without target", Fields{Type: "mouse_move", X: intPtr(1)}, "position"},
		{"missing image", Fields{Type: "mouse_move", Image: "/nonexistent/ref.png"}, "image"},
		{"click without count", Fields{Type: "mouse_click"}, "clicks"},
		{"zero clicks", Fields{Type: "mouse_click", Clicks: intPtr(0)}, "clicks"},
		{"no text", Fields{Type: "keyboard_input"}, "text"},
		{"empty text", Fields{Type: "keyboard_input", Text: strPtr("")}, "text"},
		{"no keys", Fields{Type: "keyboard_shortcut", Keys: []string{" "}}, "keys"},
		{"negative delay", Fields{Type: "mouse_click", Clicks: intPtr(1), Delay: floatPtr(-1)}, "delay"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.f)
			var fieldErr *InvalidCommandFieldError
			require.True(t, errors.As(err, &fieldErr), "err = %v", err)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}
}

func TestFieldsOfRoundTrip(t *testing.T) {
	orig := WithStep(NewMouseMoveTo(3, 4, 7), Step{Order: 7}.WithDelay(0.25))
	f := FieldsOf(orig)
	require.NotNil(t, f.X)
	assert.Equal(t, 3, *f.X)
	assert.Equal(t, 4, *f.Y)

	f.Order = 9
	c, err := Build(f)
	require.NoError(t, err)
	assert.Equal(t, 9, c.StepInfo().Order)
	assert.Equal(t, 0.25, *c.StepInfo().Delay)
}
