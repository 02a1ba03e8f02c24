package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/athebyme/catalog-manager/config"
	_ "github.com/athebyme/catalog-manager/docs"
	"github.com/athebyme/catalog-manager/internal/adapters/cache"
	"github.com/athebyme/catalog-manager/internal/adapters/logger"
	"github.com/athebyme/catalog-manager/internal/adapters/messaging"
	"github.com/athebyme/catalog-manager/internal/adapters/metrics"
	"github.com/athebyme/catalog-manager/internal/adapters/source"
	"github.com/athebyme/catalog-manager/internal/adapters/storage"
	"github.com/athebyme/catalog-manager/internal/api"
	"github.com/athebyme/catalog-manager/internal/domain/ingest"
	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/internal/domain/services"
	"github.com/athebyme/catalog-manager/internal/domain/session"
	"github.com/athebyme/catalog-manager/internal/domain/store"
	"github.com/athebyme/catalog-manager/internal/domain/validator"
	"github.com/athebyme/catalog-manager/internal/utils"
	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// @title Catalog Manager API
// @version 1.0
// @description Управление каталогом продуктов в памяти
// @BasePath /api/v1
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
	log.Info("Инициализация сервиса",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	seedSource, err := newSeedSource(ctx, cfg)
	if err != nil {
		log.Fatal("Ошибка инициализации источника коллекции", interfaces.LogField{Key: "error", Value: err.Error()})
	}

	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	raw, err := seedSource.LoadRawProducts(loadCtx)
	loadCancel()
	if err != nil {
		log.Fatal("Ошибка загрузки исходной коллекции", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	if err := seedSource.Close(); err != nil {
		log.Warn("Ошибка при закрытии источника коллекции", interfaces.LogField{Key: "error", Value: err.Error()})
	}

	products := ingest.Ingest(raw, ingest.Sinks{
		ingest.SinkFunc(func(productID, item string) {
			log.Warn("Обнаружен дубликат productId",
				interfaces.LogField{Key: "product_id", Value: productID},
				interfaces.LogField{Key: "item", Value: item},
			)
		}),
		appMetrics,
	})
	log.Info("Исходная коллекция загружена",
		interfaces.LogField{Key: "driver", Value: cfg.Source.Driver},
		interfaces.LogField{Key: "raw", Value: len(raw)},
		interfaces.LogField{Key: "products", Value: len(products)},
	)

	catalogStore := store.New(products, store.NewIDGenerator(cfg.Catalog.IDStrategy))

	cacheClient, err := newCache(ctx, cfg)
	if err != nil {
		log.Fatal("Ошибка инициализации кэша", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	log.Info("Кэш инициализирован", interfaces.LogField{Key: "driver", Value: cfg.Cache.Driver})

	sinks := session.ChangeSinks{
		session.ChangeSinkFunc(func(event models.ChangeEvent) {
			log.Info("Каталог изменен",
				interfaces.LogField{Key: "change_type", Value: string(event.Type)},
				interfaces.LogField{Key: "product_id", Value: event.ProductID},
				interfaces.LogField{Key: "revision", Value: event.Revision},
			)
		}),
		appMetrics,
	}

	var messagingClient *messaging.KafkaMessaging
	if cfg.Kafka.Enabled {
		messagingClient, err = messaging.NewKafkaMessaging(cfg.Kafka.Brokers, cfg.Kafka.GroupID, log)
		if err != nil {
			log.Fatal("Ошибка инициализации системы обмена сообщениями", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		sinks = append(sinks, messaging.NewEventPublisher(messagingClient, cfg.Kafka.Topic, cfg.Kafka.PublishTimeout, log))
		log.Info("Система обмена сообщениями инициализирована",
			interfaces.LogField{Key: "topic", Value: cfg.Kafka.Topic})
	}

	catalogSession := session.New(catalogStore, validator.New(), sinks, session.Options{
		PageSize:           cfg.Catalog.DefaultPageSize,
		PageSizeOptions:    cfg.Catalog.PageSizeOptions,
		SortField:          models.SortField(cfg.Catalog.DefaultSortField),
		SortDirection:      models.SortDirection(cfg.Catalog.DefaultSortDirection),
		OnValidationFailed: appMetrics.ValidationFailed,
	})

	catalogService := services.NewCatalogService(
		catalogStore,
		catalogSession,
		cacheClient,
		cfg.Cache.DefaultExpiration,
		appMetrics,
		log,
	)
	log.Info("Сервис каталога инициализирован")

	routerCfg := api.RouterConfig{
		CORSAllowedOrigins: cfg.Security.CORSAllowOrigins,
		DefaultPageSize:    cfg.Catalog.DefaultPageSize,
		RequestTimeout:     cfg.Server.RequestTimeout,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = appMetrics
		routerCfg.Gatherer = registry
	}
	router := api.SetupRouter(catalogService, log, routerCfg)
	log.Info("Маршрутизатор настроен")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", interfaces.LogField{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка при graceful shutdown", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		log.Info("HTTP сервер остановлен")

		log.Info("Закрытие соединений с зависимостями...")

		if messagingClient != nil {
			if err := messagingClient.Close(); err != nil {
				log.Error("Ошибка при закрытии Kafka",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}

		if err := cacheClient.Close(); err != nil {
			log.Error("Ошибка при закрытии кэша",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}

		close(done)
	}()

	<-done
	log.Info("Сервер корректно завершил работу")
}

// newSeedSource выбирает источник исходной коллекции по source.driver
func newSeedSource(ctx context.Context, cfg *config.Config) (interfaces.SeedSourcePort, error) {
	switch cfg.Source.Driver {
	case "file", "":
		return source.NewJSONFile(cfg.Source.Path), nil
	case "postgres":
		return storage.NewPostgresSource(ctx, storage.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
			PoolSize: cfg.Postgres.PoolSize,
			Timeout:  cfg.Postgres.Timeout,
		})
	default:
		return nil, fmt.Errorf("%w: %s", utils.ErrUnknownSourceDriver, cfg.Source.Driver)
	}
}

// newCache выбирает кэш представлений по cache.driver
func newCache(ctx context.Context, cfg *config.Config) (interfaces.CachePort, error) {
	switch cfg.Cache.Driver {
	case "memory", "":
		return cache.NewMemoryCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval), nil
	case "redis":
		client, err := cache.NewRedisCache(
			ctx,
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.Prefix,
			cfg.Cache.DefaultExpiration,
		)
		if err != nil {
			return nil, err
		}
		if err := checkCacheConnection(ctx, client); err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil
	case "none":
		return cache.Noop{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", utils.ErrUnknownCacheDriver, cfg.Cache.Driver)
	}
}

// checkCacheConnection проверяет запись и чтение тестового ключа
func checkCacheConnection(ctx context.Context, cacheClient interfaces.CachePort) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	testKey := "test:connection"
	testValue := []byte("test-value")

	if err := cacheClient.Set(ctx, testKey, testValue, 10*time.Second); err != nil {
		return fmt.Errorf("failed to write test key: %w", err)
	}

	value, err := cacheClient.Get(ctx, testKey)
	if err != nil {
		return fmt.Errorf("failed to read test key: %w", err)
	}
	if string(value) != string(testValue) {
		return fmt.Errorf("unexpected test value: got %s, want %s", string(value), string(testValue))
	}

	if err := cacheClient.Delete(ctx, testKey); err != nil {
		return fmt.Errorf("failed to delete test key: %w", err)
	}
	return nil
}
