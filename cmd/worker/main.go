package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athebyme/catalog-manager/config"
	"github.com/athebyme/catalog-manager/internal/adapters/logger"
	"github.com/athebyme/catalog-manager/internal/adapters/messaging"
	"github.com/athebyme/catalog-manager/internal/adapters/metrics"
	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// Воркер аудита: читает события изменений каталога из Kafka и журналирует их
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	log.Info("Инициализация воркера",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName + "-worker"},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	if !cfg.Kafka.Enabled {
		log.Fatal("Воркер требует kafka.enabled=true")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workerMetrics := metrics.New(registry)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})

		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Info("Запуск HTTP сервера для метрик",
				interfaces.LogField{Key: "addr", Value: metricsServer.Addr})
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Ошибка запуска HTTP сервера для метрик",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()
	}

	messagingClient, err := messaging.NewKafkaMessaging(cfg.Kafka.Brokers, cfg.Kafka.GroupID, log)
	if err != nil {
		log.Fatal("Ошибка инициализации системы обмена сообщениями",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	log.Info("Система обмена сообщениями инициализирована")

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	subscribeToCatalogChanges(ctx, messagingClient, cfg.Kafka.Topic, workerMetrics, log, &wg)

	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")
		cancel()
		wg.Wait()

		if err := messagingClient.Close(); err != nil {
			log.Error("Ошибка при закрытии Kafka",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}

		if metricsServer != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Error("Ошибка остановки HTTP сервера для метрик",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
			shutdownCancel()
		}

		close(done)
	}()

	log.Info("Воркер запущен и готов к обработке сообщений")
	<-done
	log.Info("Воркер корректно завершил работу")
}

// handleChangeMessage журналирует одно событие изменения каталога
func handleChangeMessage(m *metrics.Metrics, logger interfaces.LoggerPort) interfaces.MessageHandler {
	return func(ctx context.Context, msg *interfaces.Message) error {
		startTime := time.Now()

		event, err := messaging.DecodeChangeEvent(msg)
		if err != nil {
			logger.ErrorWithContext(ctx, "Ошибка декодирования события",
				interfaces.LogField{Key: "error", Value: err.Error()},
				interfaces.LogField{Key: "message_id", Value: msg.ID},
			)
			m.MessageProcessed(msg.Topic, "error", time.Since(startTime))
			return err
		}

		switch messaging.EventName(event.Type) {
		case messaging.ProductCreatedEvent, messaging.ProductUpdatedEvent, messaging.ProductDeletedEvent:
			logger.InfoWithContext(ctx, "Событие каталога",
				interfaces.LogField{Key: "event_type", Value: messaging.EventName(event.Type)},
				interfaces.LogField{Key: "product_id", Value: event.ProductID},
				interfaces.LogField{Key: "revision", Value: event.Revision},
				interfaces.LogField{Key: "message_id", Value: msg.ID},
			)
		default:
			logger.WarnWithContext(ctx, "Неизвестный тип события",
				interfaces.LogField{Key: "change_type", Value: string(event.Type)},
			)
			m.MessageProcessed(msg.Topic, "unknown", time.Since(startTime))
			return nil
		}

		m.MessageProcessed(msg.Topic, "success", time.Since(startTime))
		return nil
	}
}

// subscribeToCatalogChanges подписывается на тему изменений до отмены ctx
func subscribeToCatalogChanges(ctx context.Context, messagingClient interfaces.MessagingPort, topic string,
	m *metrics.Metrics, logger interfaces.LoggerPort, wg *sync.WaitGroup) {

	wg.Add(1)

	go func() {
		defer wg.Done()

		unsubscribe, err := messagingClient.Subscribe(ctx, topic, handleChangeMessage(m, logger))
		if err != nil {
			logger.Error("Ошибка подписки на изменения каталога",
				interfaces.LogField{Key: "error", Value: err.Error()})
			return
		}
		defer func() {
			if err := unsubscribe(); err != nil {
				logger.Error("Ошибка отмены подписки",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()

		logger.Info("Подписка на изменения каталога установлена",
			interfaces.LogField{Key: "topic", Value: topic})

		<-ctx.Done()
		logger.Info("Отмена подписки на изменения каталога")
	}()
}
