package image

import (
	"fmt"
	"image"
	"time"

	"macroplay/internal/logger"
	"macroplay/internal/screen"
)

// DefaultThreshold минимальная оценка совпадения по умолчанию
const DefaultThreshold = 0.8

// MatchResult найденное совпадение: центр в координатах экрана и оценка
type MatchResult struct {
	Center     image.Point
	TopLeft    image.Point
	Confidence float64
}

// ScreenLocator ищет эталонное изображение на текущем кадре экрана
type ScreenLocator struct {
	capturer     screen.Capturer
	logger       *logger.LoggerManager
	pyramidScale int
	refineRadius int
}

// NewScreenLocator создает новый экземпляр ScreenLocator.
// pyramidScale > 1 включает грубый проход по уменьшенным изображениям.
func NewScreenLocator(capturer screen.Capturer, pyramidScale, refineRadius int, loggerManager *logger.LoggerManager) *ScreenLocator {
	if pyramidScale < 1 {
		pyramidScale = 1
	}
	return &ScreenLocator{
		capturer:     capturer,
		logger:       loggerManager,
		pyramidScale: pyramidScale,
		refineRadius: refineRadius,
	}
}

// LocateFile загружает эталон из файла и ищет его на экране.
// Ошибка декодирования возвращается как *ImageLoadError.
func (l *ScreenLocator) LocateFile(path string, threshold float64) (*MatchResult, error) {
	ref, err := LoadReference(path)
	if err != nil {
		return nil, err
	}
	return l.Locate(ref, threshold)
}

// Locate снимает свежий кадр и ищет на нем ref. Если лучшая оценка ниже threshold,
// возвращает nil без ошибки.
func (l *ScreenLocator) Locate(ref image.Image, threshold float64) (*MatchResult, error) {
	frame, err := l.capturer.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("ошибка захвата экрана: %w", err)
	}
	return l.find(frame, ref, threshold), nil
}

func (l *ScreenLocator) find(frame *image.RGBA, ref image.Image, threshold float64) *MatchResult {
	start := time.Now()
	defer l.logger.Elapsed(start, "поиск изображения")

	f, t := ToRGBA(frame), ToRGBA(ref)
	if !fits(f, t) {
		l.logger.Debug("эталон %v не помещается в кадр %v", t.Rect.Size(), f.Rect.Size())
		return nil
	}

	topLeft, score, ok := matchCoarseToFine(f, t, l.pyramidScale, l.refineRadius)
	if !ok {
		m := newMatcher(f, t)
		topLeft, score = m.search(m.positions())
	}

	l.logger.Debug("🔍 лучшее совпадение %v, оценка %.4f, порог %.2f", topLeft, score, threshold)
	if score < threshold {
		return nil
	}

	origin := frame.Bounds().Min
	size := t.Rect.Size()
	return &MatchResult{
		TopLeft:    origin.Add(topLeft),
		Center:     origin.Add(topLeft).Add(image.Pt(size.X/2, size.Y/2)),
		Confidence: score,
	}
}
