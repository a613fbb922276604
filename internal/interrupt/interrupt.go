// Package interrupt передает сигналы запуска и остановки макроса между горутинами.
package interrupt

import (
	"sync/atomic"

	"macroplay/internal/logger"
)

// key клавиши, на которые реагирует монитор горячих клавиш
type key int

const (
	keyOther key = iota
	keyShift
	keyEnter
	keyStop
)

// InterruptManager управляет прерываниями и горячими клавишами
type InterruptManager struct {
	scriptInterruptChan chan bool
	scriptStartChan     chan bool
	isScriptRunning     atomic.Bool
	shiftPressed        bool
	loggerManager       *logger.LoggerManager
}

// NewInterruptManager создает новый менеджер прерываний
func NewInterruptManager(loggerManager *logger.LoggerManager) *InterruptManager {
	return &InterruptManager{
		scriptInterruptChan: make(chan bool, 1),
		scriptStartChan:     make(chan bool, 1),
		loggerManager:       loggerManager,
	}
}

// StartMonitoring запускает мониторинг горячих клавиш
func (im *InterruptManager) StartMonitoring() {
	go im.monitorHotkeys()
}

// GetScriptInterruptChan возвращает канал для прерывания скрипта
func (im *InterruptManager) GetScriptInterruptChan() <-chan bool {
	return im.scriptInterruptChan
}

// GetScriptStartChan возвращает канал для запуска скрипта
func (im *InterruptManager) GetScriptStartChan() <-chan bool {
	return im.scriptStartChan
}

// SetScriptRunning устанавливает состояние выполнения скрипта.
// Непрочитанный сигнал остановки от прошлого запуска сбрасывается.
func (im *InterruptManager) SetScriptRunning(running bool) {
	im.isScriptRunning.Store(running)
	if !running {
		select {
		case <-im.scriptInterruptChan:
		default:
		}
	}
}

// IsScriptRunning возвращает состояние выполнения скрипта
func (im *InterruptManager) IsScriptRunning() bool {
	return im.isScriptRunning.Load()
}

// RequestStart просит запустить макрос; повторный запрос до чтения игнорируется
func (im *InterruptManager) RequestStart() {
	select {
	case im.scriptStartChan <- true:
	default:
	}
}

// Stop просит остановить макрос перед следующим шагом.
// Без запущенного макроса ничего не делает.
func (im *InterruptManager) Stop() {
	if !im.IsScriptRunning() {
		return
	}
	select {
	case im.scriptInterruptChan <- true:
		im.loggerManager.Info("⏹️ Запрошена остановка макроса")
	default:
	}
}

// handleKey обрабатывает одно событие клавиатуры: Shift+Enter запускает, Q останавливает
func (im *InterruptManager) handleKey(k key, down bool) {
	switch k {
	case keyShift:
		im.shiftPressed = down
	case keyEnter:
		if down && im.shiftPressed {
			im.RequestStart()
		}
	case keyStop:
		// Q только прерывает, если макрос запущен
		if down {
			im.Stop()
		}
	}
}
