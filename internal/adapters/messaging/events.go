package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// KafkaEvent имя события каталога на шине
type KafkaEvent = string

const (
	ProductCreatedEvent KafkaEvent = "product_created"
	ProductUpdatedEvent KafkaEvent = "product_updated"
	ProductDeletedEvent KafkaEvent = "product_deleted"
)

// EventName возвращает имя события для типа изменения
func EventName(t models.ChangeType) KafkaEvent {
	switch t {
	case models.ChangeCreate:
		return ProductCreatedEvent
	case models.ChangeUpdate:
		return ProductUpdatedEvent
	case models.ChangeDelete:
		return ProductDeletedEvent
	default:
		return string(t)
	}
}

// DecodeChangeEvent разбирает событие изменения из сообщения шины
func DecodeChangeEvent(msg *interfaces.Message) (models.ChangeEvent, error) {
	var event models.ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return models.ChangeEvent{}, fmt.Errorf("failed to decode change event %s: %w", msg.ID, err)
	}
	return event, nil
}

// EventPublisher публикует изменения хранилища в шину сообщений
// Реализует session.ChangeSink; ошибки шины логируются и не прерывают изменение
type EventPublisher struct {
	bus     interfaces.MessagingPort
	topic   string
	timeout time.Duration
	logger  interfaces.LoggerPort
}

// NewEventPublisher создает публикатор событий
func NewEventPublisher(bus interfaces.MessagingPort, topic string, timeout time.Duration, logger interfaces.LoggerPort) *EventPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EventPublisher{bus: bus, topic: topic, timeout: timeout, logger: logger}
}

// HandleChange реализует session.ChangeSink
func (p *EventPublisher) HandleChange(event models.ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Не удалось сериализовать событие",
			interfaces.LogField{Key: "event_id", Value: event.ID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.bus.PublishWithKey(ctx, p.topic, event.ProductID, payload); err != nil {
		p.logger.Error("Не удалось опубликовать событие",
			interfaces.LogField{Key: "event", Value: EventName(event.Type)},
			interfaces.LogField{Key: "product_id", Value: event.ProductID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return
	}

	p.logger.Debug("Событие опубликовано",
		interfaces.LogField{Key: "event", Value: EventName(event.Type)},
		interfaces.LogField{Key: "product_id", Value: event.ProductID},
		interfaces.LogField{Key: "revision", Value: event.Revision},
	)
}
