package input

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
)

// RobotBackend управляет мышью и клавиатурой через robotgo
type RobotBackend struct{}

// NewRobotBackend создает новый экземпляр RobotBackend
func NewRobotBackend() *RobotBackend {
	return &RobotBackend{}
}

func (b *RobotBackend) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click нажимает кнопку count раз в текущей позиции курсора
func (b *RobotBackend) Click(button string, count int) error {
	for i := 0; i < count; i++ {
		robotgo.Click(button, false)
	}
	return nil
}

func (b *RobotBackend) KeyPress(key string) error {
	if err := robotgo.KeyToggle(robotKey(key), "down"); err != nil {
		return fmt.Errorf("ошибка нажатия клавиши %q: %w", key, err)
	}
	return nil
}

func (b *RobotBackend) KeyRelease(key string) error {
	if err := robotgo.KeyToggle(robotKey(key), "up"); err != nil {
		return fmt.Errorf("ошибка отпускания клавиши %q: %w", key, err)
	}
	return nil
}

func (b *RobotBackend) Position() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

func (b *RobotBackend) SetClipboard(text string) error {
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("ошибка записи в буфер обмена: %w", err)
	}
	return nil
}

// robotKey приводит имена клавиш из правил к именам robotgo
func robotKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

var keyAliases = map[string]string{
	"ctrl_l":  "lctrl",
	"ctrl_r":  "rctrl",
	"control": "ctrl",
	"alt_l":   "lalt",
	"alt_r":   "ralt",
	"shift_l": "lshift",
	"shift_r": "rshift",
	"win":     "cmd",
	"super":   "cmd",
	"return":  "enter",
	"esc":     "escape",
	"del":     "delete",
	"pgup":    "pageup",
	"pgdn":    "pagedown",
}
