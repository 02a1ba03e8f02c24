package interfaces

import (
	"context"

	"github.com/athebyme/catalog-manager/internal/domain/models"
)

// SeedSourcePort определяет источник исходной коллекции продуктов
// Источник читается один раз при старте, до инициализации хранилища
type SeedSourcePort interface {
	// LoadRawProducts возвращает исходные записи в порядке хранения
	LoadRawProducts(ctx context.Context) ([]models.RawProduct, error)

	// Close закрывает соединение с источником
	Close() error
}
