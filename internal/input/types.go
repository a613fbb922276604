// Package input описывает примитивы имитации ввода и их реализации.
package input

// Кнопки мыши
const (
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonMiddle = "center"
)

// Backend примитивы ввода, которые нужны калибровке и воспроизведению.
// Все вызовы синхронные: результат виден сразу после возврата.
type Backend interface {
	MoveTo(x, y int) error
	Click(button string, count int) error
	KeyPress(key string) error
	KeyRelease(key string) error
	Position() (x, y int, err error)
	SetClipboard(text string) error
}

// Pointer часть Backend, нужная калибровке
type Pointer interface {
	MoveTo(x, y int) error
	Position() (x, y int, err error)
}
