package interfaces

import "context"

// LogLevel определяет уровни логирования
type LogLevel int

const (
	// Уровни логирования от наименее до наиболее важного
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// LogField представляет дополнительное поле в логе
type LogField struct {
	Key   string
	Value interface{}
}

// LoggerPort определяет интерфейс для системы логирования каталога
type LoggerPort interface {
	// Debug логирует сообщение с уровнем Debug
	Debug(msg string, args ...interface{})

	// Info логирует сообщение с уровнем Info
	Info(msg string, args ...interface{})

	// Warn логирует сообщение с уровнем Warn
	Warn(msg string, args ...interface{})

	// Error логирует сообщение с уровнем Error
	Error(msg string, args ...interface{})

	// Fatal логирует сообщение с уровнем Fatal и завершает программу
	Fatal(msg string, args ...interface{})

	// InfoWithContext логирует сообщение с полями из контекста запроса
	InfoWithContext(ctx context.Context, msg string, args ...interface{})

	// WarnWithContext логирует сообщение с полями из контекста запроса
	WarnWithContext(ctx context.Context, msg string, args ...interface{})

	// ErrorWithContext логирует сообщение с полями из контекста запроса
	ErrorWithContext(ctx context.Context, msg string, args ...interface{})

	// WithField возвращает новый логгер с добавленным полем
	WithField(key string, value interface{}) LoggerPort

	// WithFields возвращает новый логгер с добавленными полями
	WithFields(fields ...LogField) LoggerPort

	// GetLevel возвращает текущий уровень логирования
	GetLevel() LogLevel

	// Sync сбрасывает буферы логгера
	Sync() error
}

// RequestIDKey ключ контекста, под которым middleware хранит идентификатор запроса
type RequestIDKey struct{}
