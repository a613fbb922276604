package command

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// record запись команды в rule.json
type record struct {
	Type     string   `json:"type"`
	Position []int    `json:"position,omitempty"`
	Image    string   `json:"image,omitempty"`
	Clicks   *int     `json:"clicks,omitempty"`
	Text     *string  `json:"text,omitempty"`
	Keys     []string `json:"keys,omitempty"`
	Order    int      `json:"order"`
	Delay    *float64 `json:"delay,omitempty"`
}

func toRecord(c Command) (record, error) {
	step := c.StepInfo()
	r := record{Type: string(c.Kind()), Order: step.Order, Delay: step.Delay}

	switch v := c.(type) {
	case MouseMove:
		switch t := v.Target.(type) {
		case Coordinates:
			r.Position = []int{t.X, t.Y}
		case ImageReference:
			r.Image = t.Path
		default:
			return record{}, fmt.Errorf("mouse_move без цели (order=%d)", step.Order)
		}
	case MouseClick:
		clicks := v.Clicks
		r.Clicks = &clicks
	case KeyboardInput:
		text := v.Text
		r.Text = &text
	case KeyboardShortcut:
		r.Keys = append([]string(nil), v.Keys...)
	default:
		return record{}, fmt.Errorf("неизвестный тип команды %T", c)
	}
	return r, nil
}

func fromRecord(r record) (Command, error) {
	step := Step{Order: r.Order, Delay: r.Delay}

	switch Kind(r.Type) {
	case KindMouseMove:
		if r.Image != "" {
			return MouseMove{Step: step, Target: ImageReference{Path: r.Image}}, nil
		}
		if len(r.Position) != 2 {
			return nil, fmt.Errorf("mouse_move: ожидалось position [x, y] или image (order=%d)", r.Order)
		}
		return MouseMove{Step: step, Target: Coordinates{X: r.Position[0], Y: r.Position[1]}}, nil
	case KindMouseClick:
		if r.Clicks == nil {
			return nil, fmt.Errorf("mouse_click: не задано поле clicks (order=%d)", r.Order)
		}
		return MouseClick{Step: step, Clicks: *r.Clicks}, nil
	case KindKeyboardInput:
		if r.Text == nil {
			return nil, fmt.Errorf("keyboard_input: не задано поле text (order=%d)", r.Order)
		}
		return KeyboardInput{Step: step, Text: *r.Text}, nil
	case KindKeyboardShortcut:
		return KeyboardShortcut{Step: step, Keys: append([]string(nil), r.Keys...)}, nil
	}
	return nil, fmt.Errorf("неизвестный тип команды %q (order=%d)", r.Type, r.Order)
}

// Marshal кодирует список в JSON с отступом 4 пробела
func Marshal(l CommandList) ([]byte, error) {
	records := make([]record, 0, len(l))
	for _, c := range l {
		r, err := toRecord(c)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return sonic.ConfigStd.MarshalIndent(records, "", "    ")
}

// Unmarshal декодирует список из JSON
func Unmarshal(data []byte) (CommandList, error) {
	var records []record
	if err := sonic.ConfigStd.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON: %w", err)
	}
	l := make(CommandList, 0, len(records))
	for _, r := range records {
		c, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		l = append(l, c)
	}
	return l, nil
}
