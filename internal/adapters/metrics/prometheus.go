// Package metrics собирает метрики Prometheus для каталога
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/internal/domain/validator"
)

// Metrics набор метрик, зарегистрированных в одном Registerer
type Metrics struct {
	httpDurations   *prometheus.HistogramVec
	requestsCounter *prometheus.CounterVec
	activeRequests  prometheus.Gauge

	mutations          *prometheus.CounterVec
	duplicates         prometheus.Counter
	validationFailures *prometheus.CounterVec
	viewDerivations    *prometheus.CounterVec
	cacheOperations    *prometheus.CounterVec

	messagesProcessed         *prometheus.CounterVec
	messageProcessingDuration *prometheus.HistogramVec
}

// New регистрирует метрики в reg; nil означает prometheus.DefaultRegisterer
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		httpDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_durations_seconds",
			Help:    "Длительность HTTP запросов",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),

		requestsCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		}, []string{"path", "method", "status"}),

		activeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Количество активных HTTP запросов",
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Количество изменений хранилища по типу",
		}, []string{"type"}),

		duplicates: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_duplicates_discarded_total",
			Help: "Количество записей, отброшенных при загрузке как дубликаты",
		}),

		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_validation_failures_total",
			Help: "Количество ошибок проверки формы по полю",
		}, []string{"field"}),

		viewDerivations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_view_derivations_total",
			Help: "Количество построений представления",
		}, []string{"source"}),

		cacheOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Количество операций с кэшем",
		}, []string{"operation", "status"}),

		messagesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_messages_processed_total",
			Help: "Количество обработанных сообщений",
		}, []string{"topic", "status"}),

		messageProcessingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_message_processing_duration_seconds",
			Help:    "Длительность обработки сообщений",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}

// ObserveHTTP учитывает завершенный HTTP запрос
func (m *Metrics) ObserveHTTP(path, method string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.httpDurations.WithLabelValues(path, method, code).Observe(duration.Seconds())
	m.requestsCounter.WithLabelValues(path, method, code).Inc()
}

// RequestStarted увеличивает число активных запросов
func (m *Metrics) RequestStarted() { m.activeRequests.Inc() }

// RequestFinished уменьшает число активных запросов
func (m *Metrics) RequestFinished() { m.activeRequests.Dec() }

// HandleChange реализует session.ChangeSink
func (m *Metrics) HandleChange(event models.ChangeEvent) {
	m.mutations.WithLabelValues(string(event.Type)).Inc()
}

// DuplicateDiscarded реализует ingest.DiagnosticSink
func (m *Metrics) DuplicateDiscarded(_, _ string) {
	m.duplicates.Inc()
}

// ValidationFailed учитывает каждое поле с ошибкой
func (m *Metrics) ValidationFailed(errs validator.ValidationErrors) {
	for field := range errs {
		m.validationFailures.WithLabelValues(field).Inc()
	}
}

// ViewDerived учитывает построение представления; cached означает ответ из кэша
func (m *Metrics) ViewDerived(cached bool) {
	source := "derived"
	if cached {
		source = "cache"
	}
	m.viewDerivations.WithLabelValues(source).Inc()
}

// CacheOperation учитывает операцию с кэшем
func (m *Metrics) CacheOperation(operation, status string) {
	m.cacheOperations.WithLabelValues(operation, status).Inc()
}

// MessageProcessed учитывает обработанное воркером сообщение
func (m *Metrics) MessageProcessed(topic, status string, duration time.Duration) {
	m.messagesProcessed.WithLabelValues(topic, status).Inc()
	m.messageProcessingDuration.WithLabelValues(topic).Observe(duration.Seconds())
}
