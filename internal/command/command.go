// Package command содержит модель шагов макроса и их хранение.
package command

import (
	"fmt"
	"strings"
	"time"
)

// Kind тип команды; значения совпадают с полем "type" в rule.json
type Kind string

const (
	KindMouseMove        Kind = "mouse_move"
	KindMouseClick       Kind = "mouse_click"
	KindKeyboardInput    Kind = "keyboard_input"
	KindKeyboardShortcut Kind = "keyboard_shortcut"
)

// DefaultDelay пауза после шага, если delay не задан
const DefaultDelay = 100 * time.Millisecond

// Step общие поля всех команд
type Step struct {
	Order int
	Delay *float64 // секунды; nil - DefaultDelay
}

// StepInfo возвращает общие поля команды
func (s Step) StepInfo() Step {
	return s
}

// Wait пауза после выполнения шага
func (s Step) Wait() time.Duration {
	if s.Delay == nil {
		return DefaultDelay
	}
	return time.Duration(*s.Delay * float64(time.Second))
}

// WithDelay возвращает Step с заданной паузой в секундах
func (s Step) WithDelay(seconds float64) Step {
	s.Delay = &seconds
	return s
}

// Command один шаг макроса. Набор реализаций закрыт: MouseMove, MouseClick,
// KeyboardInput, KeyboardShortcut.
type Command interface {
	Kind() Kind
	StepInfo() Step
	isCommand()
}

// Target цель перемещения мыши: Coordinates или ImageReference
type Target interface {
	isTarget()
	String() string
}

// Coordinates абсолютные координаты экрана
type Coordinates struct {
	X, Y int
}

func (Coordinates) isTarget() {}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// ImageReference путь к эталонному изображению, которое ищется на экране при воспроизведении
type ImageReference struct {
	Path string
}

func (ImageReference) isTarget() {}

func (r ImageReference) String() string {
	return "image:" + r.Path
}

// MouseMove перемещение курсора
type MouseMove struct {
	Step
	Target Target
}

// MouseClick клик левой кнопкой Clicks раз в текущей позиции
type MouseClick struct {
	Step
	Clicks int
}

// KeyboardInput ввод текста через буфер обмена
type KeyboardInput struct {
	Step
	Text string
}

// KeyboardShortcut сочетание клавиш: все нажимаются по порядку, затем все отпускаются в том же порядке
type KeyboardShortcut struct {
	Step
	Keys []string
}

func (MouseMove) Kind() Kind        { return KindMouseMove }
func (MouseClick) Kind() Kind       { return KindMouseClick }
func (KeyboardInput) Kind() Kind    { return KindKeyboardInput }
func (KeyboardShortcut) Kind() Kind { return KindKeyboardShortcut }

func (MouseMove) isCommand()        {}
func (MouseClick) isCommand()       {}
func (KeyboardInput) isCommand()    {}
func (KeyboardShortcut) isCommand() {}

// NewMouseMoveTo создает перемещение в координаты
func NewMouseMoveTo(x, y, order int) MouseMove {
	return MouseMove{Step: Step{Order: order}, Target: Coordinates{X: x, Y: y}}
}

// NewMouseMoveToImage создает перемещение к найденному на экране изображению
func NewMouseMoveToImage(path string, order int) MouseMove {
	return MouseMove{Step: Step{Order: order}, Target: ImageReference{Path: path}}
}

// NewMouseClick создает клик
func NewMouseClick(clicks, order int) MouseClick {
	return MouseClick{Step: Step{Order: order}, Clicks: clicks}
}

// NewKeyboardInput создает ввод текста
func NewKeyboardInput(text string, order int) KeyboardInput {
	return KeyboardInput{Step: Step{Order: order}, Text: text}
}

// NewKeyboardShortcut создает сочетание клавиш; срез keys копируется
func NewKeyboardShortcut(keys []string, order int) KeyboardShortcut {
	return KeyboardShortcut{Step: Step{Order: order}, Keys: append([]string(nil), keys...)}
}

// WithStep возвращает копию команды с другими общими полями
func WithStep(c Command, s Step) Command {
	switch v := c.(type) {
	case MouseMove:
		v.Step = s
		return v
	case MouseClick:
		v.Step = s
		return v
	case KeyboardInput:
		v.Step = s
		return v
	case KeyboardShortcut:
		v.Step = s
		return v
	}
	return c
}

// Describe короткое описание команды для логов и списка
func Describe(c Command) string {
	var payload string
	switch v := c.(type) {
	case MouseMove:
		payload = v.Target.String()
	case MouseClick:
		payload = fmt.Sprintf("clicks=%d", v.Clicks)
	case KeyboardInput:
		payload = fmt.Sprintf("text=%q", v.Text)
	case KeyboardShortcut:
		payload = "keys=" + strings.Join(v.Keys, "+")
	}
	step := c.StepInfo()
	return fmt.Sprintf("[order=%d] %s %s (delay %v)", step.Order, c.Kind(), payload, step.Wait())
}
