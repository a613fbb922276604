package input

import (
	"macroplay/internal/arduino"
)

// ArduinoBackend передает ввод через Arduino, эмулирующий HID-устройство
type ArduinoBackend struct {
	controller *arduino.Controller
}

// NewArduinoBackend создает новый экземпляр ArduinoBackend
func NewArduinoBackend(controller *arduino.Controller) *ArduinoBackend {
	return &ArduinoBackend{controller: controller}
}

func (b *ArduinoBackend) MoveTo(x, y int) error {
	return b.controller.Move(x, y)
}

func (b *ArduinoBackend) Click(button string, count int) error {
	return b.controller.Click(button, count)
}

func (b *ArduinoBackend) KeyPress(key string) error {
	return b.controller.KeyDown(robotKey(key))
}

func (b *ArduinoBackend) KeyRelease(key string) error {
	return b.controller.KeyUp(robotKey(key))
}

func (b *ArduinoBackend) Position() (int, int, error) {
	return b.controller.Position()
}

func (b *ArduinoBackend) SetClipboard(text string) error {
	return b.controller.CopyToClipboard(text)
}
