// Package ingest подготавливает исходную коллекцию продуктов перед загрузкой в хранилище
package ingest

import "github.com/athebyme/catalog-manager/internal/domain/models"

// DiagnosticSink принимает предупреждения об отброшенных дубликатах
// Предупреждения носят информационный характер и не влияют на результат
type DiagnosticSink interface {
	DuplicateDiscarded(productID, item string)
}

// SinkFunc адаптер функции к DiagnosticSink
type SinkFunc func(productID, item string)

// DuplicateDiscarded реализация DiagnosticSink
func (f SinkFunc) DuplicateDiscarded(productID, item string) {
	f(productID, item)
}

// Sinks объединяет несколько приемников диагностики
type Sinks []DiagnosticSink

// DuplicateDiscarded реализация DiagnosticSink
func (s Sinks) DuplicateDiscarded(productID, item string) {
	for _, sink := range s {
		if sink != nil {
			sink.DuplicateDiscarded(productID, item)
		}
	}
}

// Dedup удаляет записи с повторяющимся productId, оставляя первое вхождение
// Порядок оставшихся записей сохраняется
func Dedup(products []models.Product, sink DiagnosticSink) []models.Product {
	seen := make(map[string]struct{}, len(products))
	result := make([]models.Product, 0, len(products))

	for _, p := range products {
		if _, ok := seen[p.ProductID]; ok {
			if sink != nil {
				sink.DuplicateDiscarded(p.ProductID, p.Item)
			}
			continue
		}
		seen[p.ProductID] = struct{}{}
		result = append(result, p)
	}

	return result
}

// FromRaw преобразует исходные записи в продукты
func FromRaw(raw []models.RawProduct) []models.Product {
	products := make([]models.Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, r.ToProduct())
	}
	return products
}

// Ingest выполняет полный проход: преобразование и удаление дубликатов
func Ingest(raw []models.RawProduct, sink DiagnosticSink) []models.Product {
	return Dedup(FromRaw(raw), sink)
}
