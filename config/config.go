package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config содержит все настройки сервиса
type Config struct {
	AppName  string
	Version  string
	LogLevel string
	ENV      string

	Server struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		RequestTimeout  time.Duration
	}

	// Source откуда берется исходная коллекция: file или postgres
	Source struct {
		Driver string
		Path   string // пустой путь означает встроенную коллекцию
	}

	Postgres struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
		Timeout  time.Duration
		PoolSize int // размер пула соединений
	}

	// Cache кэш построенных представлений: memory, redis или none
	Cache struct {
		Driver            string
		DefaultExpiration time.Duration
		CleanupInterval   time.Duration
	}

	Redis struct {
		Host     string
		Port     int
		Password string
		DB       int
		Prefix   string
	}

	Kafka struct {
		Enabled        bool
		Brokers        []string
		Topic          string
		GroupID        string
		PublishTimeout time.Duration
	}

	Metrics struct {
		Enabled  bool
		Endpoint string
		Port     int
	}

	Catalog struct {
		DefaultPageSize      int
		PageSizeOptions      []int
		DefaultSortField     string
		DefaultSortDirection string
		IDStrategy           string // sequence или uuid
	}

	Security struct {
		CORSAllowOrigins []string
	}
}

// Load загружает конфигурацию из файла и переменных окружения
// configPath может быть именем файла без расширения или путем к yaml-файлу
func Load(configPath string) (*Config, error) {
	v := viper.New()

	switch {
	case configPath == "":
		v.SetConfigName("config")
	case filepath.Ext(configPath) != "":
		v.SetConfigFile(configPath)
	default:
		v.SetConfigName(configPath)
	}
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")
	v.AddConfigPath("../../config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Файл не найден: используются значения по умолчанию и переменные окружения
	}

	setDefaults(v)
	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case "file", "postgres":
	default:
		return fmt.Errorf("invalid source.driver %q: expected file or postgres", c.Source.Driver)
	}

	switch c.Cache.Driver {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("invalid cache.driver %q: expected memory, redis or none", c.Cache.Driver)
	}

	if c.Catalog.DefaultPageSize <= 0 {
		return fmt.Errorf("invalid catalog.defaultPageSize %d: must be positive", c.Catalog.DefaultPageSize)
	}
	if len(c.Catalog.PageSizeOptions) > 0 && !containsInt(c.Catalog.PageSizeOptions, c.Catalog.DefaultPageSize) {
		return fmt.Errorf("catalog.defaultPageSize %d is not one of catalog.pageSizeOptions %v",
			c.Catalog.DefaultPageSize, c.Catalog.PageSizeOptions)
	}

	switch c.Catalog.DefaultSortDirection {
	case "asc", "desc":
	default:
		return fmt.Errorf("invalid catalog.defaultSortDirection %q", c.Catalog.DefaultSortDirection)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must not be empty when kafka is enabled")
	}

	return nil
}

// IsProduction сообщает, запущен ли сервис в production окружении
func (c *Config) IsProduction() bool {
	return c.ENV == "production"
}

func containsInt(values []int, v int) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Основные настройки
	v.SetDefault("appName", "catalog-manager")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("logLevel", "info")
	v.SetDefault("env", "development")

	// Настройки сервера
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.shutdownTimeout", "5s")
	v.SetDefault("server.requestTimeout", "30s")

	// Источник исходной коллекции
	v.SetDefault("source.driver", "file")
	v.SetDefault("source.path", "")

	// Настройки Postgres
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.dbname", "catalog")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timeout", "5s")
	v.SetDefault("postgres.poolSize", 4)

	// Настройки кэша
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.defaultExpiration", "10m")
	v.SetDefault("cache.cleanupInterval", "15m")

	// Настройки Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "catalog")

	// Настройки Kafka
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "catalog-changes")
	v.SetDefault("kafka.groupID", "catalog-audit")
	v.SetDefault("kafka.publishTimeout", "5s")

	// Настройки метрик
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.endpoint", "/metrics")
	v.SetDefault("metrics.port", 9091)

	// Настройки каталога
	v.SetDefault("catalog.defaultPageSize", 25)
	v.SetDefault("catalog.pageSizeOptions", []int{10, 25, 50, 100})
	v.SetDefault("catalog.defaultSortField", "item")
	v.SetDefault("catalog.defaultSortDirection", "asc")
	v.SetDefault("catalog.idStrategy", "sequence")

	// Настройки безопасности
	v.SetDefault("security.corsAllowOrigins", []string{"*"})
}

// bindEnvVariables привязывает переменные окружения к конфигурации
func bindEnvVariables(v *viper.Viper) {
	bind := func(key, env string) {
		// Ошибка возможна только при пустом ключе
		_ = v.BindEnv(key, env)
	}

	// Основные настройки
	bind("appName", "APP_NAME")
	bind("version", "APP_VERSION")
	bind("logLevel", "LOG_LEVEL")
	bind("env", "APP_ENV")

	// Настройки сервера
	bind("server.host", "SERVER_HOST")
	bind("server.port", "SERVER_PORT")
	bind("server.readTimeout", "SERVER_READ_TIMEOUT")
	bind("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	bind("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")
	bind("server.requestTimeout", "SERVER_REQUEST_TIMEOUT")

	// Источник исходной коллекции
	bind("source.driver", "SOURCE_DRIVER")
	bind("source.path", "SOURCE_PATH")

	// Настройки Postgres
	bind("postgres.host", "POSTGRES_HOST")
	bind("postgres.port", "POSTGRES_PORT")
	bind("postgres.user", "POSTGRES_USER")
	bind("postgres.password", "POSTGRES_PASSWORD")
	bind("postgres.dbname", "POSTGRES_DBNAME")
	bind("postgres.sslmode", "POSTGRES_SSLMODE")
	bind("postgres.timeout", "POSTGRES_TIMEOUT")
	bind("postgres.poolSize", "POSTGRES_POOL_SIZE")

	// Настройки кэша
	bind("cache.driver", "CACHE_DRIVER")
	bind("cache.defaultExpiration", "CACHE_DEFAULT_EXPIRATION")
	bind("cache.cleanupInterval", "CACHE_CLEANUP_INTERVAL")

	// Настройки Redis
	bind("redis.host", "REDIS_HOST")
	bind("redis.port", "REDIS_PORT")
	bind("redis.password", "REDIS_PASSWORD")
	bind("redis.db", "REDIS_DB")
	bind("redis.prefix", "REDIS_PREFIX")

	// Настройки Kafka
	bind("kafka.enabled", "KAFKA_ENABLED")
	bind("kafka.brokers", "KAFKA_BROKERS")
	bind("kafka.topic", "KAFKA_TOPIC")
	bind("kafka.groupID", "KAFKA_GROUP_ID")
	bind("kafka.publishTimeout", "KAFKA_PUBLISH_TIMEOUT")

	// Настройки метрик
	bind("metrics.enabled", "METRICS_ENABLED")
	bind("metrics.endpoint", "METRICS_ENDPOINT")
	bind("metrics.port", "METRICS_PORT")

	// Настройки каталога
	bind("catalog.defaultPageSize", "CATALOG_DEFAULT_PAGE_SIZE")
	bind("catalog.defaultSortField", "CATALOG_DEFAULT_SORT_FIELD")
	bind("catalog.defaultSortDirection", "CATALOG_DEFAULT_SORT_DIRECTION")
	bind("catalog.idStrategy", "CATALOG_ID_STRATEGY")

	// Настройки безопасности
	bind("security.corsAllowOrigins", "CORS_ALLOW_ORIGINS")
}
