// Package session владеет курсором и буфером обмена на время калибровки или воспроизведения.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBusy возвращается, если устройство ввода уже занято другим сеансом
var ErrBusy = errors.New("устройство ввода занято")

// Guard допускает только один активный сеанс на процесс
type Guard struct {
	mu    sync.Mutex
	owner string
}

// Default общий страж процесса: калибровка и воспроизведение берут его оба
var Default = &Guard{}

// TryAcquire занимает стража для owner; release освобождает его
func (g *Guard) TryAcquire(owner string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.owner != "" {
		return nil, fmt.Errorf("%w: активен сеанс %q", ErrBusy, g.owner)
	}
	g.owner = owner

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.owner = ""
			g.mu.Unlock()
		})
	}, nil
}

// Owner возвращает имя текущего владельца или пустую строку
func (g *Guard) Owner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.owner
}
