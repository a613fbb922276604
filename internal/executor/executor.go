// Package executor воспроизводит список команд на реальных устройствах ввода.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"macroplay/internal/calibration"
	"macroplay/internal/command"
	imageInternal "macroplay/internal/image"
	"macroplay/internal/input"
	"macroplay/internal/logger"
	"macroplay/internal/session"
)

// ErrNoMatch эталонное изображение не найдено на экране; шаг пропускается
var ErrNoMatch = errors.New("изображение не найдено на экране")

// Locator ищет эталонное изображение на свежем кадре экрана
type Locator interface {
	LocateFile(path string, threshold float64) (*imageInternal.MatchResult, error)
}

// Journal журнал выполнения; ошибки журнала только логируются
type Journal interface {
	StartRun(total int) (int64, error)
	RecordStep(runID int64, result StepResult) error
	FinishRun(runID int64, status RunStatus) error
	StopRequested() (bool, error)
}

// Outcome итог одного шага
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// RunStatus итог всего прогона
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunStopped   RunStatus = "stopped"
)

// StepResult результат выполнения шага
type StepResult struct {
	Index   int
	Command command.Command
	Outcome Outcome
	Err     error
}

// Report итог прогона
type Report struct {
	Steps  []StepResult
	Status RunStatus
}

// Count число шагов с указанным итогом
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

// Engine выполняет команды строго последовательно
type Engine struct {
	backend       input.Backend
	locator       Locator
	logger        *logger.LoggerManager
	guard         *session.Guard
	threshold     float64
	pasteModifier string
	sleep         func(time.Duration)
	interrupts    <-chan bool
	journal       Journal
}

// Option настраивает Engine
type Option func(*Engine)

// WithThreshold порог совпадения для шагов с изображением
func WithThreshold(threshold float64) Option {
	return func(e *Engine) { e.threshold = threshold }
}

// WithPasteModifier модификатор сочетания вставки
func WithPasteModifier(modifier string) Option {
	return func(e *Engine) { e.pasteModifier = modifier }
}

// WithSleep подменяет паузу между шагами (для тестов)
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithInterrupts канал прерывания, проверяется между шагами
func WithInterrupts(ch <-chan bool) Option {
	return func(e *Engine) { e.interrupts = ch }
}

// WithJournal включает журнал выполнения
func WithJournal(journal Journal) Option {
	return func(e *Engine) { e.journal = journal }
}

// WithGuard задает стража сеанса вместо общего
func WithGuard(guard *session.Guard) Option {
	return func(e *Engine) { e.guard = guard }
}

// NewEngine создает новый экземпляр Engine
func NewEngine(backend input.Backend, locator Locator, loggerManager *logger.LoggerManager, opts ...Option) *Engine {
	e := &Engine{
		backend:   backend,
		locator:   locator,
		logger:    loggerManager,
		guard:     session.Default,
		threshold: imageInternal.DefaultThreshold,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute выполняет команды по возрастанию order (при равных - в порядке вставки).
// Неудачный шаг не откатывается и не прерывает прогон. Остановка через ctx,
// канал прерывания или журнал проверяется только между шагами.
func (e *Engine) Execute(ctx context.Context, commands command.CommandList, offset calibration.OffsetParams) (*Report, error) {
	release, err := e.guard.TryAcquire("execution")
	if err != nil {
		return nil, err
	}
	defer release()

	steps := commands.Sorted()
	report := &Report{Status: RunCompleted}
	runID := e.startRun(len(steps))

	e.logger.Info("▶️ Выполняем %d команд, смещение %s", len(steps), offset)

	for i, c := range steps {
		if reason := e.stopReason(ctx); reason != "" {
			e.logger.Info("⏹️ Остановка перед шагом %d: %s", i+1, reason)
			report.Status = RunStopped
			break
		}

		result := StepResult{Index: i, Command: c, Outcome: OutcomeDone}
		if err := e.executeStep(c, offset); err != nil {
			result.Err = err
			result.Outcome = OutcomeFailed
			if skippable(err) {
				result.Outcome = OutcomeSkipped
			}
			e.logger.LogError(err, fmt.Sprintf("шаг %d/%d %s: %s", i+1, len(steps), command.Describe(c), result.Outcome))
		} else {
			e.logger.Info("✅ [%d/%d] %s", i+1, len(steps), command.Describe(c))
		}
		report.Steps = append(report.Steps, result)
		e.recordStep(runID, result)

		e.sleep(c.StepInfo().Wait())
	}

	e.finishRun(runID, report.Status)
	e.logger.Info("🏁 Выполнено: %d, пропущено: %d, ошибок: %d",
		report.Count(OutcomeDone), report.Count(OutcomeSkipped), report.Count(OutcomeFailed))
	return report, nil
}

// skippable шаг с изображением, которое не найдено или не читается
func skippable(err error) bool {
	var loadErr *imageInternal.ImageLoadError
	return errors.Is(err, ErrNoMatch) || errors.As(err, &loadErr)
}

// executeStep выполняет один шаг; все варианты команды обрабатываются явно
func (e *Engine) executeStep(c command.Command, offset calibration.OffsetParams) error {
	switch v := c.(type) {
	case command.MouseMove:
		return e.move(v, offset)
	case command.MouseClick:
		return e.backend.Click(input.ButtonLeft, v.Clicks)
	case command.KeyboardInput:
		return input.Paste(e.backend, e.pasteModifier, v.Text)
	case command.KeyboardShortcut:
		return e.shortcut(v.Keys)
	default:
		return fmt.Errorf("неизвестный тип команды %T", c)
	}
}

func (e *Engine) move(m command.MouseMove, offset calibration.OffsetParams) error {
	switch t := m.Target.(type) {
	case command.Coordinates:
		x, y := offset.Apply(t.X, t.Y)
		return e.backend.MoveTo(x, y)
	case command.ImageReference:
		res, err := e.locator.LocateFile(t.Path, e.threshold)
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("%w: %s", ErrNoMatch, t.Path)
		}
		e.logger.Debug("🖼️ %s найдено в %v (оценка %.3f)", t.Path, res.Center, res.Confidence)
		// совпадение уже в координатах экрана, смещение не применяется
		return e.backend.MoveTo(res.Center.X, res.Center.Y)
	default:
		return fmt.Errorf("mouse_move без цели")
	}
}

// shortcut нажимает клавиши по порядку и отпускает их в том же порядке
func (e *Engine) shortcut(keys []string) error {
	for _, k := range keys {
		if err := e.backend.KeyPress(k); err != nil {
			return err
		}
	}
	for _, k := range keys {
		if err := e.backend.KeyRelease(k); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) stopReason(ctx context.Context) string {
	if err := ctx.Err(); err != nil {
		return err.Error()
	}
	if e.interrupts != nil {
		select {
		case <-e.interrupts:
			return "прерывание по горячей клавише"
		default:
		}
	}
	if e.journal != nil {
		stop, err := e.journal.StopRequested()
		if err != nil {
			e.logger.LogError(err, "Ошибка проверки действий в базе данных")
		}
		if stop {
			return "действие 'stop' из базы данных"
		}
	}
	return ""
}

func (e *Engine) startRun(total int) int64 {
	if e.journal == nil {
		return 0
	}
	id, err := e.journal.StartRun(total)
	if err != nil {
		e.logger.LogError(err, "Ошибка записи начала прогона")
	}
	return id
}

func (e *Engine) recordStep(runID int64, result StepResult) {
	if e.journal == nil {
		return
	}
	if err := e.journal.RecordStep(runID, result); err != nil {
		e.logger.LogError(err, "Ошибка записи шага в журнал")
	}
}

func (e *Engine) finishRun(runID int64, status RunStatus) {
	if e.journal == nil {
		return
	}
	if err := e.journal.FinishRun(runID, status); err != nil {
		e.logger.LogError(err, "Ошибка записи итога прогона")
	}
}
