// Package store хранит каноническую коллекцию продуктов в памяти процесса
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/athebyme/catalog-manager/internal/domain/models"
)

// maxIDAttempts ограничивает число обращений к генератору до перехода на UUID
const maxIDAttempts = 16

// Observer получает уведомление после каждой успешной мутации
type Observer interface {
	StoreChanged(event models.ChangeEvent)
}

// ObserverFunc адаптер функции к Observer
type ObserverFunc func(event models.ChangeEvent)

// StoreChanged реализация Observer
func (f ObserverFunc) StoreChanged(event models.ChangeEvent) {
	f(event)
}

// Store хранилище записей каталога
// Ошибок не возвращает: некорректный ввод отсекается валидатором формы
type Store struct {
	mu       sync.RWMutex
	items    []models.Product
	index    map[string]int
	ids      IDGenerator
	observer Observer
	revision uint64
	now      func() time.Time
}

// New создает хранилище из уже очищенной от дубликатов коллекции
// Записи с повторным productId в seed отбрасываются, первое вхождение сохраняется
func New(seed []models.Product, ids IDGenerator) *Store {
	if ids == nil {
		ids = NewSequenceGenerator()
	}

	s := &Store{
		items: make([]models.Product, 0, len(seed)),
		index: make(map[string]int, len(seed)),
		ids:   ids,
		now:   time.Now,
	}
	for _, p := range seed {
		if _, ok := s.index[p.ProductID]; ok {
			continue
		}
		s.index[p.ProductID] = len(s.items)
		s.items = append(s.items, p)
	}
	return s
}

// SetObserver регистрирует единственного наблюдателя; nil отключает уведомления
func (s *Store) SetObserver(o Observer) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// Create присваивает кандидату новый productId, добавляет запись и возвращает ее
func (s *Store) Create(candidate models.Product) models.Product {
	s.mu.Lock()
	candidate.ProductID = s.freshID()
	s.index[candidate.ProductID] = len(s.items)
	s.items = append(s.items, candidate)
	after := candidate
	event := s.event(models.ChangeCreate, candidate.ProductID, nil, &after)
	observer := s.observer
	s.mu.Unlock()

	notify(observer, event)
	return candidate
}

// Update заменяет запись с тем же productId на ее месте
// Если записи нет, ничего не происходит и возвращается false
func (s *Store) Update(record models.Product) bool {
	s.mu.Lock()
	pos, ok := s.index[record.ProductID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	before := s.items[pos]
	s.items[pos] = record
	after := record
	event := s.event(models.ChangeUpdate, record.ProductID, &before, &after)
	observer := s.observer
	s.mu.Unlock()

	notify(observer, event)
	return true
}

// Delete удаляет запись по productId; отсутствие записи не является ошибкой
func (s *Store) Delete(productID string) bool {
	s.mu.Lock()
	pos, ok := s.index[productID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	before := s.items[pos]
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, productID)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ProductID] = i
	}
	event := s.event(models.ChangeDelete, productID, &before, nil)
	observer := s.observer
	s.mu.Unlock()

	notify(observer, event)
	return true
}

// List возвращает копию текущей коллекции
func (s *Store) List() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.items))
	copy(out, s.items)
	return out
}

// Snapshot возвращает копию коллекции вместе с ревизией, к которой она относится
func (s *Store) Snapshot() ([]models.Product, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.items))
	copy(out, s.items)
	return out, s.revision
}

// Get возвращает запись по productId
func (s *Store) Get(productID string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[productID]
	if !ok {
		return models.Product{}, false
	}
	return s.items[pos], true
}

// Len возвращает число записей
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Revision возвращает номер ревизии; увеличивается при каждой успешной мутации
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// freshID вызывается под блокировкой записи
func (s *Store) freshID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.NewID()
		if id == "" {
			continue
		}
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
	for {
		id := uuid.New().String()
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// event вызывается под блокировкой записи и фиксирует новую ревизию
func (s *Store) event(kind models.ChangeType, productID string, before, after *models.Product) models.ChangeEvent {
	s.revision++
	return models.ChangeEvent{
		ID:        uuid.New().String(),
		Type:      kind,
		ProductID: productID,
		Before:    before,
		After:     after,
		Revision:  s.revision,
		ChangedAt: s.now().Unix(),
	}
}

func notify(o Observer, event models.ChangeEvent) {
	if o != nil {
		o.StoreChanged(event)
	}
}
