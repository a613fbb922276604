//go:build windows

package osutils

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// PROCESS_PER_MONITOR_DPI_AWARE и E_ACCESSDENIED
const (
	processPerMonitorDPIAware = 2
	eAccessDenied             = 0x80070005
)

var (
	shcore                       = windows.NewLazySystemDLL("shcore.dll")
	procSetProcessDpiAwareness   = shcore.NewProc("SetProcessDpiAwareness")
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procSetProcessDPIAwareLegacy = user32.NewProc("SetProcessDPIAware")
)

// EnableDPIAwareness включает per-monitor DPI awareness, чтобы координаты
// курсора и снимков экрана совпадали в физических пикселях.
// Повторный вызов (E_ACCESSDENIED) не считается ошибкой.
func EnableDPIAwareness() error {
	if err := procSetProcessDpiAwareness.Find(); err != nil {
		// Windows 7: только системный DPI
		if err := procSetProcessDPIAwareLegacy.Find(); err != nil {
			return fmt.Errorf("DPI awareness недоступна: %w", err)
		}
		procSetProcessDPIAwareLegacy.Call()
		return nil
	}

	hr, _, _ := procSetProcessDpiAwareness.Call(processPerMonitorDPIAware)
	if hr != 0 && hr != eAccessDenied {
		return fmt.Errorf("SetProcessDpiAwareness вернул 0x%x", hr)
	}
	return nil
}
