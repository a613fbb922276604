// Package osutils содержит платформенные настройки процесса.
package osutils
