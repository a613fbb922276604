package command

import (
	"fmt"
	"os"
	"strings"
)

// InvalidCommandFieldError ошибка в поле команды при редактировании
type InvalidCommandFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidCommandFieldError) Error() string {
	return fmt.Sprintf("некорректное поле %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InvalidCommandFieldError{Field: field, Reason: reason}
}

// Validate проверяет команду перед сохранением
func Validate(c Command) error {
	step := c.StepInfo()
	if step.Delay != nil && *step.Delay < 0 {
		return invalid("delay", "пауза не может быть отрицательной")
	}

	switch v := c.(type) {
	case MouseMove:
		switch t := v.Target.(type) {
		case Coordinates:
		case ImageReference:
			if t.Path == "" {
				return invalid("image", "путь к изображению пустой")
			}
			if _, err := os.Stat(t.Path); err != nil {
				return invalid("image", "путь к изображению не существует")
			}
		default:
			return invalid("position", "не задана цель перемещения")
		}
	case MouseClick:
		if v.Clicks < 1 {
			return invalid("clicks", "количество кликов должно быть не меньше 1")
		}
	case KeyboardInput:
		if v.Text == "" {
			return invalid("text", "текст не может быть пустым")
		}
	case KeyboardShortcut:
		if len(v.Keys) == 0 {
			return invalid("keys", "список клавиш пустой")
		}
		for _, k := range v.Keys {
			if strings.TrimSpace(k) == "" {
				return invalid("keys", "пустое имя клавиши")
			}
		}
	default:
		return invalid("type", fmt.Sprintf("неизвестный тип команды %T", c))
	}
	return nil
}
