package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"macroplay/internal/command"
)

// commandFlags флаги полей команды для add и edit
type commandFlags struct {
	typ    string
	x, y   int
	image  string
	clicks int
	text   string
	keys   []string
	order  int
	delay  float64
}

func (f *commandFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "mouse_move, mouse_click, keyboard_input или keyboard_shortcut")
	cmd.Flags().IntVar(&f.x, "x", 0, "координата x для mouse_move")
	cmd.Flags().IntVar(&f.y, "y", 0, "координата y для mouse_move")
	cmd.Flags().StringVar(&f.image, "image", "", "эталонное изображение для mouse_move")
	cmd.Flags().IntVar(&f.clicks, "clicks", 1, "количество кликов")
	cmd.Flags().StringVar(&f.text, "text", "", "текст для keyboard_input")
	cmd.Flags().StringSliceVar(&f.keys, "keys", nil, "клавиши через запятую, например ctrl,a")
	cmd.Flags().IntVar(&f.order, "order", 0, "порядковый номер")
	cmd.Flags().Float64Var(&f.delay, "delay", 0.1, "пауза после шага в секундах")
}

// apply переносит заданные флаги в поля формы
func (f *commandFlags) apply(cmd *cobra.Command, fields *command.Fields) {
	changed := cmd.Flags().Changed
	if changed("type") && f.typ != fields.Type {
		// смена типа: поля старой команды не переносятся
		*fields = command.Fields{Type: f.typ, Order: fields.Order, Delay: fields.Delay}
	}
	if changed("x") {
		x := f.x
		fields.X = &x
	}
	if changed("y") {
		y := f.y
		fields.Y = &y
	}
	if changed("image") {
		fields.Image = f.image
	}
	if changed("x") || changed("y") {
		if !changed("image") {
			fields.Image = ""
		}
	}
	if changed("clicks") || (fields.Type == string(command.KindMouseClick) && fields.Clicks == nil) {
		clicks := f.clicks
		fields.Clicks = &clicks
	}
	if changed("text") {
		text := f.text
		fields.Text = &text
	}
	if changed("keys") {
		fields.Keys = f.keys
	}
	if changed("order") {
		fields.Order = f.order
	}
	if changed("delay") {
		delay := f.delay
		fields.Delay = &delay
	}
}

func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("индекс должен быть числом: %q", arg)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("индекс %d вне диапазона [0, %d)", i, n)
	}
	return i, nil
}

func (a *app) commandsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "commands",
		Short: "Просмотр и редактирование списка команд",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Показать команды в порядке выполнения",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := a.loadCommands()
			if err != nil {
				return err
			}
			for i, c := range commands {
				fmt.Printf("%3d  %s\n", i, command.Describe(c))
			}
			return nil
		},
	}

	var addFlags commandFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Добавить команду",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := a.editor()
			if err != nil {
				return err
			}
			fields := command.Fields{Type: addFlags.typ}
			addFlags.apply(cmd, &fields)
			c, err := command.Build(fields)
			if err != nil {
				return err
			}
			if err := editor.Add(c); err != nil {
				return err
			}
			a.logger.Info("➕ Добавлено: %s", command.Describe(c))
			return nil
		},
	}
	addFlags.register(add)
	add.MarkFlagRequired("type")

	var editFlags commandFlags
	edit := &cobra.Command{
		Use:   "edit <index>",
		Short: "Изменить команду с индексом index (см. list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := a.editor()
			if err != nil {
				return err
			}
			commands := editor.Commands()
			index, err := parseIndex(args[0], len(commands))
			if err != nil {
				return err
			}
			fields := command.FieldsOf(commands[index])
			editFlags.apply(cmd, &fields)
			c, err := command.Build(fields)
			if err != nil {
				return err
			}
			if err := editor.Edit(index, c); err != nil {
				return err
			}
			a.logger.Info("✏️ Изменено: %s", command.Describe(c))
			return nil
		},
	}
	editFlags.register(edit)

	del := &cobra.Command{
		Use:   "delete <index>",
		Short: "Удалить команду с индексом index (см. list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := a.editor()
			if err != nil {
				return err
			}
			commands := editor.Commands()
			index, err := parseIndex(args[0], len(commands))
			if err != nil {
				return err
			}
			if err := editor.Delete(index); err != nil {
				return err
			}
			a.logger.Info("🗑️ Удалено: %s", command.Describe(commands[index]))
			return nil
		},
	}

	root.AddCommand(list, add, edit, del)
	return root
}
