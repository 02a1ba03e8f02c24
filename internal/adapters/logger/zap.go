package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// ZapLogger адаптер для Zap, реализующий LoggerPort
type ZapLogger struct {
	logger *zap.SugaredLogger
	level  zapcore.LevelEnabler
}

// NewZapLogger создает новый логгер на основе Zap
func NewZapLogger(level string, isProduction bool) (interfaces.LoggerPort, error) {
	var config zap.Config

	if isProduction {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return &ZapLogger{logger: logger.Sugar(), level: config.Level}, nil
}

// NewFromZap оборачивает готовый *zap.Logger (используется в тестах с zaptest/observer)
func NewFromZap(logger *zap.Logger) interfaces.LoggerPort {
	return &ZapLogger{logger: logger.Sugar(), level: logger.Core()}
}

// ParseLevel преобразует строковый уровень в zapcore.Level; неизвестное значение дает info
func ParseLevel(levelStr string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// convertToZapFields преобразует LogField в zap.Field
func convertToZapFields(args ...interface{}) []interface{} {
	for i, arg := range args {
		if field, ok := arg.(interfaces.LogField); ok {
			args[i] = zap.Any(field.Key, field.Value)
		}
	}
	return args
}

// extractFieldsFromContext извлекает поля из контекста
func extractFieldsFromContext(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}

	var fields []interface{}
	if reqID, ok := ctx.Value(interfaces.RequestIDKey{}).(string); ok && reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	return fields
}

// Debug реализация интерфейса LoggerPort
func (z *ZapLogger) Debug(msg string, args ...interface{}) {
	z.logger.Debugw(msg, convertToZapFields(args...)...)
}

// Info реализация интерфейса LoggerPort
func (z *ZapLogger) Info(msg string, args ...interface{}) {
	z.logger.Infow(msg, convertToZapFields(args...)...)
}

// Warn реализация интерфейса LoggerPort
func (z *ZapLogger) Warn(msg string, args ...interface{}) {
	z.logger.Warnw(msg, convertToZapFields(args...)...)
}

// Error реализация интерфейса LoggerPort
func (z *ZapLogger) Error(msg string, args ...interface{}) {
	z.logger.Errorw(msg, convertToZapFields(args...)...)
}

// Fatal реализация интерфейса LoggerPort
func (z *ZapLogger) Fatal(msg string, args ...interface{}) {
	z.logger.Fatalw(msg, convertToZapFields(args...)...)
}

// InfoWithContext реализация интерфейса LoggerPort
func (z *ZapLogger) InfoWithContext(ctx context.Context, msg string, args ...interface{}) {
	z.logger.Infow(msg, append(convertToZapFields(args...), extractFieldsFromContext(ctx)...)...)
}

// WarnWithContext реализация интерфейса LoggerPort
func (z *ZapLogger) WarnWithContext(ctx context.Context, msg string, args ...interface{}) {
	z.logger.Warnw(msg, append(convertToZapFields(args...), extractFieldsFromContext(ctx)...)...)
}

// ErrorWithContext реализация интерфейса LoggerPort
func (z *ZapLogger) ErrorWithContext(ctx context.Context, msg string, args ...interface{}) {
	z.logger.Errorw(msg, append(convertToZapFields(args...), extractFieldsFromContext(ctx)...)...)
}

// WithFields реализация интерфейса LoggerPort
func (z *ZapLogger) WithFields(fields ...interfaces.LogField) interfaces.LoggerPort {
	zapFields := make([]interface{}, 0, len(fields)*2)
	for _, field := range fields {
		zapFields = append(zapFields, field.Key, field.Value)
	}
	return &ZapLogger{logger: z.logger.With(zapFields...), level: z.level}
}

// WithField реализация интерфейса LoggerPort
func (z *ZapLogger) WithField(key string, value interface{}) interfaces.LoggerPort {
	return &ZapLogger{logger: z.logger.With(key, value), level: z.level}
}

// GetLevel реализация интерфейса LoggerPort
func (z *ZapLogger) GetLevel() interfaces.LogLevel {
	switch {
	case z.level.Enabled(zapcore.DebugLevel):
		return interfaces.DebugLevel
	case z.level.Enabled(zapcore.InfoLevel):
		return interfaces.InfoLevel
	case z.level.Enabled(zapcore.WarnLevel):
		return interfaces.WarnLevel
	case z.level.Enabled(zapcore.ErrorLevel):
		return interfaces.ErrorLevel
	default:
		return interfaces.FatalLevel
	}
}

// Sync реализация интерфейса LoggerPort
func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}
