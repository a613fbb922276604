//go:build windows

package interrupt

import (
	"github.com/moutend/go-hook/pkg/keyboard"
	"github.com/moutend/go-hook/pkg/types"
)

// monitorHotkeys мониторит горячие клавиши через глобальный хук клавиатуры
func (im *InterruptManager) monitorHotkeys() {
	eventChan := make(chan types.KeyboardEvent, 100)
	if err := keyboard.Install(nil, eventChan); err != nil {
		im.loggerManager.LogError(err, "Не удалось установить хук клавиатуры")
		return
	}
	defer keyboard.Uninstall()

	im.loggerManager.Info("⌨️ Горячие клавиши: Shift+Enter - запуск, Q - остановка")
	for event := range eventChan {
		var down bool
		switch event.Message {
		case types.WM_KEYDOWN, types.WM_SYSKEYDOWN:
			down = true
		case types.WM_KEYUP, types.WM_SYSKEYUP:
			down = false
		default:
			continue
		}
		im.handleKey(vkToKey(event.VKCode), down)
	}
}

func vkToKey(code types.VKCode) key {
	switch code {
	case types.VK_LSHIFT, types.VK_RSHIFT, types.VK_SHIFT:
		return keyShift
	case types.VK_RETURN:
		return keyEnter
	case types.VK_Q:
		return keyStop
	}
	return keyOther
}
