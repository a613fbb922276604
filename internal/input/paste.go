package input

import (
	"fmt"
	"runtime"
)

// DefaultPasteModifier модификатор системной вставки на текущей ОС
func DefaultPasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

// Paste кладет text в буфер обмена и вставляет его сочетанием modifier+v.
// Прежнее содержимое буфера обмена теряется.
func Paste(b Backend, modifier, text string) error {
	if modifier == "" {
		modifier = DefaultPasteModifier()
	}
	if err := b.SetClipboard(text); err != nil {
		return err
	}

	steps := []struct {
		press bool
		key   string
	}{
		{true, modifier},
		{true, "v"},
		{false, "v"},
		{false, modifier},
	}
	for _, s := range steps {
		var err error
		if s.press {
			err = b.KeyPress(s.key)
		} else {
			err = b.KeyRelease(s.key)
		}
		if err != nil {
			return fmt.Errorf("ошибка вставки текста: %w", err)
		}
	}
	return nil
}
