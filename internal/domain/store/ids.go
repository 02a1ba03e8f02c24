package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator выдает кандидатов в productId для новых записей
type IDGenerator interface {
	NewID() string
}

// SequenceGenerator выдает возрастающие числовые идентификаторы,
// начиная с текущего времени в миллисекундах
type SequenceGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewSequenceGenerator создает генератор на системных часах
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{now: time.Now}
}

// NewID реализация IDGenerator
func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.now().UnixMilli()
	if next <= g.last {
		next = g.last + 1
	}
	g.last = next
	return strconv.FormatInt(next, 10)
}

// UUIDGenerator выдает идентификаторы UUID v4
type UUIDGenerator struct{}

// NewID реализация IDGenerator
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// NewIDGenerator выбирает генератор по имени стратегии из конфигурации
func NewIDGenerator(strategy string) IDGenerator {
	if strategy == "uuid" {
		return UUIDGenerator{}
	}
	return NewSequenceGenerator()
}
