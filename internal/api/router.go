package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/athebyme/catalog-manager/internal/api/handlers"
	"github.com/athebyme/catalog-manager/internal/api/middleware"
	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// RouterConfig параметры маршрутизатора
type RouterConfig struct {
	CORSAllowedOrigins []string
	DefaultPageSize    int
	RequestTimeout     time.Duration

	// Metrics nil отключает HTTP метрики
	Metrics middleware.HTTPRecorder
	// Gatherer источник для /metrics; nil отключает маршрут
	Gatherer prometheus.Gatherer
}

// SetupRouter настраивает маршрутизатор
func SetupRouter(service handlers.CatalogService, logger interfaces.LoggerPort, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Глобальные middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		catalogHandler := handlers.NewCatalogHandler(service, cfg.DefaultPageSize, logger)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.GetState)
			r.Post("/intents", catalogHandler.DispatchIntent)
			r.Get("/view", catalogHandler.GetView)
		})

		r.Get("/products/{id}", catalogHandler.GetProduct)
	})

	return r
}
