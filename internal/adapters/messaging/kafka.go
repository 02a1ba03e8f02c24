package messaging

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"

	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// KafkaMessaging реализация MessagingPort с использованием Kafka
type KafkaMessaging struct {
	producer       *kafka.Producer
	subscriptions  map[string]func() error
	subscriptionMu sync.Mutex
	brokers        string
	groupID        string
	logger         interfaces.LoggerPort
}

// NewKafkaMessaging создает новый экземпляр KafkaMessaging
func NewKafkaMessaging(brokers []string, groupID string, logger interfaces.LoggerPort) (*KafkaMessaging, error) {
	servers := strings.Join(brokers, ",")

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":            servers,
		"client.id":                    "catalog-manager-producer",
		"acks":                         "all",
		"retries":                      5,
		"retry.backoff.ms":             500,
		"linger.ms":                    10,
		"batch.size":                   16384,
		"message.max.bytes":            1000000,
		"queue.buffering.max.messages": 100000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	k := &KafkaMessaging{
		producer:      producer,
		subscriptions: make(map[string]func() error),
		brokers:       servers,
		groupID:       groupID,
		logger:        logger,
	}
	go k.watchDeliveries()

	return k, nil
}

// watchDeliveries читает отчеты о доставке, чтобы канал событий producer не переполнялся
func (k *KafkaMessaging) watchDeliveries() {
	for ev := range k.producer.Events() {
		switch e := ev.(type) {
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				k.logger.Error("Сообщение не доставлено",
					interfaces.LogField{Key: "topic", Value: topicOf(e)},
					interfaces.LogField{Key: "key", Value: string(e.Key)},
					interfaces.LogField{Key: "error", Value: e.TopicPartition.Error.Error()},
				)
			}
		case kafka.Error:
			k.logger.Warn("Ошибка Kafka producer", interfaces.LogField{Key: "error", Value: e.Error()})
		}
	}
}

// messageToKafkaMessage преобразует сообщение в kafka.Message
func messageToKafkaMessage(topic string, message []byte, key string) *kafka.Message {
	headers := []kafka.Header{
		{Key: "message_id", Value: []byte(uuid.New().String())},
		{Key: "timestamp", Value: []byte(strconv.FormatInt(time.Now().UnixNano(), 10))},
	}

	var keyBytes []byte
	if key != "" {
		keyBytes = []byte(key)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          message,
		Key:            keyBytes,
		Headers:        headers,
	}
}

// kafkaMessageToMessage преобразует kafka.Message в Message
func kafkaMessageToMessage(msg *kafka.Message) *interfaces.Message {
	headers := make(map[string]string, len(msg.Headers))
	for _, header := range msg.Headers {
		headers[header.Key] = string(header.Value)
	}

	publishedAt := msg.Timestamp
	if ts, ok := headers["timestamp"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			publishedAt = time.Unix(0, nanos)
		}
	}

	return &interfaces.Message{
		ID:          headers["message_id"],
		Topic:       topicOf(msg),
		Key:         string(msg.Key),
		Value:       msg.Value,
		Headers:     headers,
		PublishedAt: publishedAt,
	}
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}

// Publish публикует сообщение в указанную тему
func (k *KafkaMessaging) Publish(ctx context.Context, topic string, message []byte) error {
	return k.PublishWithKey(ctx, topic, "", message)
}

// PublishWithKey публикует сообщение с указанным ключом
func (k *KafkaMessaging) PublishWithKey(ctx context.Context, topic string, key string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := k.producer.Produce(messageToKafkaMessage(topic, message, key), nil); err != nil {
		return fmt.Errorf("failed to produce message to %s: %w", topic, err)
	}
	return nil
}

// Subscribe подписывается на указанную тему и обрабатывает сообщения с помощью handler
func (k *KafkaMessaging) Subscribe(ctx context.Context, topic string, handler interfaces.MessageHandler) (func() error, error) {
	return k.SubscribeWithConfig(ctx, topic, handler, &interfaces.ConsumerConfig{
		GroupID:            k.groupID,
		AutoCommit:         true,
		AutoCommitInterval: 5 * time.Second,
		PollTimeout:        100 * time.Millisecond,
		AutoOffsetReset:    "earliest",
	})
}

// SubscribeWithConfig подписывается на указанную тему с дополнительными настройками
func (k *KafkaMessaging) SubscribeWithConfig(ctx context.Context, topic string, handler interfaces.MessageHandler, config *interfaces.ConsumerConfig) (func() error, error) {
	handlerID := uuid.New().String()

	offsetReset := config.AutoOffsetReset
	if offsetReset == "" {
		offsetReset = "latest"
	}

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":       k.brokers,
		"group.id":                config.GroupID,
		"auto.offset.reset":       offsetReset,
		"enable.auto.commit":      config.AutoCommit,
		"auto.commit.interval.ms": int(config.AutoCommitInterval.Milliseconds()),
		"session.timeout.ms":      30000,
		"max.poll.interval.ms":    300000,
		"heartbeat.interval.ms":   3000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	if err := consumer.Subscribe(topic, nil); err != nil {
		consumer.Close()
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		k.consumeMessages(subCtx, consumer, handler, config)
	}()

	var once sync.Once
	unsubscribe := func() error {
		var closeErr error
		once.Do(func() {
			cancel()
			<-stopped

			k.subscriptionMu.Lock()
			delete(k.subscriptions, handlerID)
			k.subscriptionMu.Unlock()

			closeErr = consumer.Close()
		})
		return closeErr
	}

	k.subscriptionMu.Lock()
	k.subscriptions[handlerID] = unsubscribe
	k.subscriptionMu.Unlock()

	return unsubscribe, nil
}

// consumeMessages обрабатывает сообщения из Kafka до отмены контекста
func (k *KafkaMessaging) consumeMessages(ctx context.Context, consumer *kafka.Consumer, handler interfaces.MessageHandler, config *interfaces.ConsumerConfig) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := consumer.Poll(int(config.PollTimeout.Milliseconds()))
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			msg := kafkaMessageToMessage(e)
			if err := handler(ctx, msg); err != nil {
				k.logger.Error("Ошибка обработки сообщения",
					interfaces.LogField{Key: "topic", Value: msg.Topic},
					interfaces.LogField{Key: "message_id", Value: msg.ID},
					interfaces.LogField{Key: "error", Value: err.Error()},
				)
				continue
			}

			if !config.AutoCommit {
				if _, err := consumer.CommitMessage(e); err != nil {
					k.logger.Warn("Не удалось подтвердить сообщение",
						interfaces.LogField{Key: "message_id", Value: msg.ID},
						interfaces.LogField{Key: "error", Value: err.Error()},
					)
				}
			}

		case kafka.Error:
			k.logger.Warn("Ошибка Kafka consumer",
				interfaces.LogField{Key: "code", Value: e.Code().String()},
				interfaces.LogField{Key: "error", Value: e.Error()},
			)
			if e.Code() == kafka.ErrAllBrokersDown {
				return
			}

		case kafka.PartitionEOF:
			k.logger.Debug("Достигнут конец партиции", interfaces.LogField{Key: "partition", Value: e.String()})
		}
	}
}

// Close закрывает соединение с системой обмена сообщениями
func (k *KafkaMessaging) Close() error {
	k.subscriptionMu.Lock()
	unsubscribers := make([]func() error, 0, len(k.subscriptions))
	for _, unsubscribe := range k.subscriptions {
		unsubscribers = append(unsubscribers, unsubscribe)
	}
	k.subscriptionMu.Unlock()

	for _, unsubscribe := range unsubscribers {
		if err := unsubscribe(); err != nil {
			k.logger.Warn("Ошибка закрытия Kafka consumer", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}

	if remaining := k.producer.Flush(15 * 1000); remaining > 0 {
		k.logger.Warn("Не все сообщения отправлены перед закрытием", interfaces.LogField{Key: "remaining", Value: remaining})
	}
	k.producer.Close()

	return nil
}
