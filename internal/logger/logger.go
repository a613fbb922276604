package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel представляет уровень логирования
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	ERROR LogLevel = "ERROR"
)

// LoggerManager управляет логированием в файл и в консоль
type LoggerManager struct {
	file   *os.File
	logger zerolog.Logger
}

// NewLoggerManager создает новый экземпляр LoggerManager
func NewLoggerManager(logFilePath string) (*LoggerManager, error) {
	// Создаем директорию для логов, если её нет
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории для логов: %w", err)
	}

	// Открываем файл для записи (создаем, если не существует)
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
	}

	// В файл пишем JSON, в консоль - человекочитаемый вывод
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
	out := zerolog.MultiLevelWriter(file, console)

	return &LoggerManager{
		file:   file,
		logger: zerolog.New(out).With().Timestamp().Logger(),
	}, nil
}

// NewWriterLogger создает LoggerManager без файла, пишущий в w
func NewWriterLogger(w io.Writer) *LoggerManager {
	return &LoggerManager{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// Nop возвращает логгер, который ничего не пишет
func Nop() *LoggerManager {
	return &LoggerManager{logger: zerolog.Nop()}
}

// With возвращает дочерний логгер с полем module
func (l *LoggerManager) With(module string) *LoggerManager {
	return &LoggerManager{
		file:   l.file,
		logger: l.logger.With().Str("module", module).Logger(),
	}
}

// Close закрывает файл логов
func (l *LoggerManager) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// logWithLevel записывает сообщение с указанным уровнем
func (l *LoggerManager) logWithLevel(level LogLevel, format string, args ...interface{}) {
	var event *zerolog.Event
	switch level {
	case DEBUG:
		event = l.logger.Debug()
	case ERROR:
		event = l.logger.Error()
	default:
		event = l.logger.Info()
	}
	event.Msgf(format, args...)
}

// Debug записывает отладочное сообщение
func (l *LoggerManager) Debug(format string, args ...interface{}) {
	l.logWithLevel(DEBUG, format, args...)
}

// Info записывает информационное сообщение
func (l *LoggerManager) Info(format string, args ...interface{}) {
	l.logWithLevel(INFO, format, args...)
}

// Error записывает сообщение об ошибке
func (l *LoggerManager) Error(format string, args ...interface{}) {
	l.logWithLevel(ERROR, format, args...)
}

// LogError записывает ошибку с дополнительной информацией
func (l *LoggerManager) LogError(err error, context string) {
	if err != nil {
		l.logger.Error().Err(err).Msg(context)
	}
}

// Elapsed пишет длительность операции, начатой в start
func (l *LoggerManager) Elapsed(start time.Time, what string) {
	l.logger.Debug().Dur("elapsed", time.Since(start)).Msg(what)
}
