package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrCommandsFileMissing файл команд отсутствует; используется пустой список
var ErrCommandsFileMissing = errors.New("файл команд не найден")

// Store читает и пишет CommandList целиком
type Store struct {
	path string
}

// NewStore создает новый экземпляр Store
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load читает список команд. Отсутствие файла дает пустой список и ошибку
// ErrCommandsFileMissing, которую вызывающий только логирует.
func (s *Store) Load() (CommandList, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return CommandList{}, fmt.Errorf("%w: %s", ErrCommandsFileMissing, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла команд: %w", err)
	}

	l, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", s.path, err)
	}
	return l.Sorted(), nil
}

// Save записывает список целиком через временный файл
func (s *Store) Save(l CommandList) error {
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("ошибка кодирования команд: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".rule-*.json")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи файла команд: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка записи файла команд: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("ошибка сохранения файла команд: %w", err)
	}
	return nil
}

// Editor владеет списком команд: каждая правка проверяется, пересортировывает список
// и сохраняет его на диск
type Editor struct {
	store    *Store
	commands CommandList
}

// NewEditor создает новый экземпляр Editor и читает команды из store.
// Ошибка ErrCommandsFileMissing возвращается вместе с рабочим редактором.
func NewEditor(store *Store) (*Editor, error) {
	l, err := store.Load()
	if err != nil && !errors.Is(err, ErrCommandsFileMissing) {
		return nil, err
	}
	return &Editor{store: store, commands: l}, err
}

// Commands возвращает копию текущего списка
func (e *Editor) Commands() CommandList {
	return append(CommandList(nil), e.commands...)
}

// Add добавляет команду
func (e *Editor) Add(c Command) error {
	if err := Validate(c); err != nil {
		return err
	}
	return e.commit(e.commands.WithAdded(c))
}

// Edit заменяет команду с индексом index
func (e *Editor) Edit(index int, c Command) error {
	if err := Validate(c); err != nil {
		return err
	}
	l, err := e.commands.WithReplaced(index, c)
	if err != nil {
		return err
	}
	return e.commit(l)
}

// Delete удаляет команду с индексом index
func (e *Editor) Delete(index int) error {
	l, err := e.commands.WithDeleted(index)
	if err != nil {
		return err
	}
	return e.commit(l)
}

func (e *Editor) commit(l CommandList) error {
	if err := e.store.Save(l); err != nil {
		return err
	}
	e.commands = l
	return nil
}
