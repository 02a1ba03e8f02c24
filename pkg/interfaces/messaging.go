package interfaces

import (
	"context"
	"time"
)

// Message представляет сообщение в системе
type Message struct {
	ID          string            `json:"id"`           // Уникальный ID сообщения
	Topic       string            `json:"topic"`        // Тема сообщения
	Key         string            `json:"key"`          // Ключ сообщения (опционально)
	Value       []byte            `json:"value"`        // Содержимое сообщения
	Headers     map[string]string `json:"headers"`      // Заголовки сообщения
	PublishedAt time.Time         `json:"published_at"` // Время публикации
}

// MessageHandler определяет функцию обработчика сообщений
type MessageHandler func(ctx context.Context, msg *Message) error

// ConsumerConfig содержит настройки для подписчика на сообщения
type ConsumerConfig struct {
	GroupID            string        // ID группы потребителей
	AutoCommit         bool          // Автоматически подтверждать полученные сообщения
	AutoCommitInterval time.Duration // Интервал автоматического подтверждения
	PollTimeout        time.Duration // Таймаут для опроса новых сообщений
	AutoOffsetReset    string        // earliest или latest
}

// MessagingPort определяет интерфейс шины сообщений
type MessagingPort interface {
	// Publish публикует сообщение в тему
	Publish(ctx context.Context, topic string, message []byte) error

	// PublishWithKey публикует сообщение с ключом партиционирования
	PublishWithKey(ctx context.Context, topic string, key string, message []byte) error

	// Subscribe подписывается на тему; возвращает функцию отписки
	Subscribe(ctx context.Context, topic string, handler MessageHandler) (func() error, error)

	Close() error
}
