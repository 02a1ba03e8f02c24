package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/internal/domain/session"
	"github.com/athebyme/catalog-manager/internal/domain/store"
	"github.com/athebyme/catalog-manager/internal/domain/view"
	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// ViewRecorder получает сведения о построении представлений
type ViewRecorder interface {
	ViewDerived(cached bool)
	CacheOperation(operation, status string)
}

// CatalogService предоставляет операции каталога для внешних адаптеров
type CatalogService struct {
	// instance отделяет ревизии этого процесса от ревизий других экземпляров в общем кэше
	instance string
	store    *store.Store
	session  *session.Session
	cache    interfaces.CachePort
	cacheTTL time.Duration
	recorder ViewRecorder
	logger   interfaces.LoggerPort
}

// NewCatalogService создает новый экземпляр CatalogService
// cache и recorder могут быть nil
func NewCatalogService(
	st *store.Store,
	sess *session.Session,
	cache interfaces.CachePort,
	cacheTTL time.Duration,
	recorder ViewRecorder,
	logger interfaces.LoggerPort,
) *CatalogService {
	return &CatalogService{
		instance: uuid.NewString(),
		store:    st,
		session:  sess,
		cache:    cache,
		cacheTTL: cacheTTL,
		recorder: recorder,
		logger:   logger,
	}
}

// State возвращает текущее состояние страницы
func (s *CatalogService) State(_ context.Context) session.State {
	return s.session.State()
}

// Dispatch передает намерение в сессию
func (s *CatalogService) Dispatch(ctx context.Context, intent session.Intent) (session.State, error) {
	state, err := s.session.Dispatch(intent)
	if err != nil {
		s.logger.WarnWithContext(ctx, "Намерение отклонено",
			interfaces.LogField{Key: "intent", Value: intentName(intent)},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return state, fmt.Errorf("failed to dispatch intent: %w", err)
	}

	s.logger.InfoWithContext(ctx, "Намерение обработано",
		interfaces.LogField{Key: "intent", Value: intentName(intent)},
		interfaces.LogField{Key: "revision", Value: state.Revision},
	)
	return state, nil
}

// View строит представление по произвольным параметрам, не меняя параметры сессии
// Результат кэшируется по экземпляру сервиса и ревизии хранилища
func (s *CatalogService) View(ctx context.Context, params models.ViewParams) (view.Result, error) {
	snapshot, revision := s.store.Snapshot()
	key := viewCacheKey(s.instance, revision, params)

	if result, ok := s.cachedView(ctx, key); ok {
		s.recordView(true)
		return result, nil
	}

	result := view.Derive(snapshot, params)
	s.recordView(false)

	if s.cache != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			return result, fmt.Errorf("failed to encode view: %w", err)
		}
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.recordCache("set", "error")
			s.logger.WarnWithContext(ctx, "Ошибка записи в кэш",
				interfaces.LogField{Key: "key", Value: key},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		} else {
			s.recordCache("set", "ok")
		}
	}

	return result, nil
}

// GetProduct получает запись по productId
func (s *CatalogService) GetProduct(_ context.Context, productID string) (models.Product, error) {
	product, ok := s.store.Get(productID)
	if !ok {
		return models.Product{}, fmt.Errorf("failed to get product %s: %w", productID, session.ErrProductNotFound)
	}
	return product, nil
}

func (s *CatalogService) cachedView(ctx context.Context, key string) (view.Result, bool) {
	if s.cache == nil {
		return view.Result{}, false
	}

	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrCacheMiss) {
			s.recordCache("get", "miss")
		} else {
			s.recordCache("get", "error")
			s.logger.WarnWithContext(ctx, "Ошибка чтения из кэша",
				interfaces.LogField{Key: "key", Value: key},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		}
		return view.Result{}, false
	}

	var result view.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		s.recordCache("get", "error")
		return view.Result{}, false
	}
	s.recordCache("get", "hit")
	return result, true
}

func (s *CatalogService) recordView(cached bool) {
	if s.recorder != nil {
		s.recorder.ViewDerived(cached)
	}
}

func (s *CatalogService) recordCache(operation, status string) {
	if s.recorder != nil {
		s.recorder.CacheOperation(operation, status)
	}
}

// viewCacheKey ревизия уникальна только внутри процесса, поэтому ключ включает instance
func viewCacheKey(instance string, revision uint64, p models.ViewParams) string {
	return fmt.Sprintf("catalog:view:%s:%d:%q:%q:%s:%s:%d:%d",
		instance, revision, p.SearchText, p.Category, p.SortField, p.SortDirection, p.Page, p.PageSize)
}

func intentName(intent session.Intent) string {
	if intent == nil {
		return ""
	}
	return intent.Name()
}
