//go:build !windows

package interrupt

// monitorHotkeys глобальный хук клавиатуры есть только в Windows
func (im *InterruptManager) monitorHotkeys() {
	im.loggerManager.Info("⌨️ Глобальные горячие клавиши недоступны на этой платформе, используйте Ctrl+C")
}
