// Package calibration подбирает поправку к координатам курсора.
//
// Правило обновления - сырой онлайн-шаг градиента без затухания и ограничений:
// при слишком большом learningRate или непостоянном смещении по экрану
// параметры могут колебаться или расходиться. Число итераций и шаг подбираются вызывающим.
package calibration

import (
	"fmt"
	"math/rand"
	"time"

	"macroplay/internal/input"
	"macroplay/internal/logger"
	"macroplay/internal/session"
)

// Display отдает размеры основного дисплея
type Display interface {
	PrimaryDisplaySize() (width, height int, err error)
}

// Calibrator управляет процедурой калибровки
type Calibrator struct {
	pointer     input.Pointer
	display     Display
	store       *ParamsStore
	guard       *session.Guard
	logger      *logger.LoggerManager
	settleDelay time.Duration
	rng         *rand.Rand
	sleep       func(time.Duration)

	params OffsetParams
}

// Option настраивает Calibrator
type Option func(*Calibrator)

// WithRand задает источник случайных целей
func WithRand(rng *rand.Rand) Option {
	return func(c *Calibrator) { c.rng = rng }
}

// WithSleep подменяет ожидание (для тестов)
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Calibrator) { c.sleep = sleep }
}

// WithGuard задает стража сеанса вместо общего
func WithGuard(guard *session.Guard) Option {
	return func(c *Calibrator) { c.guard = guard }
}

// NewCalibrator создает новый экземпляр Calibrator и читает сохраненные параметры
func NewCalibrator(pointer input.Pointer, display Display, store *ParamsStore, settleDelay time.Duration, loggerManager *logger.LoggerManager, opts ...Option) *Calibrator {
	c := &Calibrator{
		pointer:     pointer,
		display:     display,
		store:       store,
		guard:       session.Default,
		logger:      loggerManager,
		settleDelay: settleDelay,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}

	params, err := store.Load()
	if err != nil {
		c.logger.Info("⚠️ Параметры смещения не прочитаны (%v), используем (0, 0)", err)
	}
	c.params = params
	return c
}

// Params возвращает текущие параметры смещения
func (c *Calibrator) Params() OffsetParams {
	return c.params
}

// Calibrate выполняет iterations раундов калибровки и сохраняет итоговые параметры.
// Курсор физически перемещается, поэтому на время работы занимается страж сеанса.
func (c *Calibrator) Calibrate(learningRate float64, iterations int) (OffsetParams, error) {
	release, err := c.guard.TryAcquire("calibration")
	if err != nil {
		return c.params, err
	}
	defer release()

	width, height, err := c.display.PrimaryDisplaySize()
	if err != nil {
		return c.params, fmt.Errorf("ошибка получения размеров экрана: %w", err)
	}
	if width <= 0 || height <= 0 {
		return c.params, fmt.Errorf("некорректные размеры экрана %dx%d", width, height)
	}
	c.logger.Info("🖥️ Текущее разрешение экрана %dx%d", width, height)

	params := c.params
	for i := 0; i < iterations; i++ {
		targetX := c.rng.Intn(width)
		targetY := c.rng.Intn(height)

		if err := c.pointer.MoveTo(targetX, targetY); err != nil {
			return c.params, fmt.Errorf("ошибка перемещения курсора: %w", err)
		}
		// ждем, пока курсор устаканится
		c.sleep(c.settleDelay)

		actualX, actualY, err := c.pointer.Position()
		if err != nil {
			return c.params, fmt.Errorf("ошибка чтения позиции курсора: %w", err)
		}

		errorX := float64(actualX - targetX)
		errorY := float64(actualY - targetY)
		params.OffsetX -= learningRate * errorX
		params.OffsetY -= learningRate * errorY

		c.logger.Info("🎯 Итерация %d: цель=(%d, %d), факт=(%d, %d), ошибка=(%v, %v), смещение=%s",
			i+1, targetX, targetY, actualX, actualY, errorX, errorY, params)
	}

	c.params = params
	if err := c.store.Save(params); err != nil {
		return params, err
	}
	c.logger.Info("✅ Калибровка завершена, смещение: %s", params)
	return params, nil
}
