package command

import "strings"

// Fields поля формы редактирования команды; nil - поле не задано
type Fields struct {
	Type   string
	X, Y   *int
	Image  string
	Clicks *int
	Text   *string
	Keys   []string
	Order  int
	Delay  *float64
}

// FieldsOf раскладывает команду обратно в поля формы
func FieldsOf(c Command) Fields {
	r, err := toRecord(c)
	if err != nil {
		return Fields{Type: string(c.Kind()), Order: c.StepInfo().Order}
	}
	f := Fields{Type: r.Type, Image: r.Image, Clicks: r.Clicks, Text: r.Text, Keys: r.Keys, Order: r.Order, Delay: r.Delay}
	if len(r.Position) == 2 {
		x, y := r.Position[0], r.Position[1]
		f.X, f.Y = &x, &y
	}
	return f
}

// Build собирает команду из полей формы и проверяет ее
func Build(f Fields) (Command, error) {
	r := record{Type: f.Type, Order: f.Order, Delay: f.Delay}

	switch Kind(f.Type) {
	case KindMouseMove:
		switch {
		case f.Image != "":
			r.Image = f.Image
		case f.X != nil && f.Y != nil:
			r.Position = []int{*f.X, *f.Y}
		default:
			return nil, invalid("position", "нужны x и y или image")
		}
	case KindMouseClick:
		if f.Clicks == nil {
			return nil, invalid("clicks", "не задано")
		}
		r.Clicks = f.Clicks
	case KindKeyboardInput:
		if f.Text == nil {
			return nil, invalid("text", "не задано")
		}
		r.Text = f.Text
	case KindKeyboardShortcut:
		for _, k := range f.Keys {
			if k = strings.TrimSpace(k); k != "" {
				r.Keys = append(r.Keys, k)
			}
		}
	default:
		return nil, invalid("type", "ожидался mouse_move, mouse_click, keyboard_input или keyboard_shortcut")
	}

	c, err := fromRecord(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}
