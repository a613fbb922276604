//go:build !windows

package osutils

// EnableDPIAwareness на других платформах координаты уже в пикселях экрана
func EnableDPIAwareness() error {
	return nil
}
