package command

import (
	"fmt"
	"sort"
)

// CommandList упорядоченная последовательность команд; дубликаты допустимы
type CommandList []Command

// Sorted возвращает копию списка, отсортированную по Order.
// Сортировка стабильная: при равных Order сохраняется порядок вставки.
func (l CommandList) Sorted() CommandList {
	out := append(CommandList(nil), l...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StepInfo().Order < out[j].StepInfo().Order
	})
	return out
}

// IsSorted проверяет, что список упорядочен по Order
func (l CommandList) IsSorted() bool {
	return sort.SliceIsSorted(l, func(i, j int) bool {
		return l[i].StepInfo().Order < l[j].StepInfo().Order
	})
}

// WithAdded добавляет команду в конец и пересортировывает
func (l CommandList) WithAdded(c Command) CommandList {
	out := append(append(CommandList(nil), l...), c)
	return out.Sorted()
}

// WithReplaced заменяет команду по индексу и пересортировывает
func (l CommandList) WithReplaced(index int, c Command) (CommandList, error) {
	if index < 0 || index >= len(l) {
		return l, fmt.Errorf("индекс %d вне диапазона [0, %d)", index, len(l))
	}
	out := append(CommandList(nil), l...)
	out[index] = c
	return out.Sorted(), nil
}

// WithDeleted удаляет команду по индексу
func (l CommandList) WithDeleted(index int) (CommandList, error) {
	if index < 0 || index >= len(l) {
		return l, fmt.Errorf("индекс %d вне диапазона [0, %d)", index, len(l))
	}
	out := make(CommandList, 0, len(l)-1)
	out = append(out, l[:index]...)
	out = append(out, l[index+1:]...)
	return out.Sorted(), nil
}
