package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Capturer снимает текущий кадр экрана
type Capturer interface {
	CaptureScreen() (*image.RGBA, error)
}

// PrimaryDisplay снимает основной дисплей (дисплей 0)
type PrimaryDisplay struct{}

// NewPrimaryDisplay создает новый экземпляр PrimaryDisplay
func NewPrimaryDisplay() *PrimaryDisplay {
	return &PrimaryDisplay{}
}

// CaptureScreen захватывает скриншот всего основного дисплея
func (d *PrimaryDisplay) CaptureScreen() (*image.RGBA, error) {
	if screenshot.NumActiveDisplays() < 1 {
		return nil, fmt.Errorf("failed to capture full screen: no active displays")
	}
	bounds := screenshot.GetDisplayBounds(0)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture full screen: %w", err)
	}
	return img, nil
}

// PrimaryDisplaySize возвращает ширину и высоту основного дисплея
func (d *PrimaryDisplay) PrimaryDisplaySize() (int, int, error) {
	if screenshot.NumActiveDisplays() < 1 {
		return 0, 0, fmt.Errorf("no active displays")
	}
	bounds := screenshot.GetDisplayBounds(0)
	return bounds.Dx(), bounds.Dy(), nil
}

// CaptureRegion захватывает прямоугольную область экрана
func CaptureRegion(rect image.Rectangle) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return img, nil
}
