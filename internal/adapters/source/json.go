// Package source загружает исходную коллекцию продуктов
package source

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/athebyme/catalog-manager/internal/domain/models"
)

//go:embed products.json
var defaultProducts []byte

// JSONFile источник в формате Products.json: массив объектов с ключами productId, item, price...
// Пустой путь означает встроенную коллекцию
type JSONFile struct {
	path string
}

// NewJSONFile создает источник для файла path
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// LoadRawProducts реализация SeedSourcePort
func (f *JSONFile) LoadRawProducts(ctx context.Context) ([]models.RawProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := defaultProducts
	if f.path != "" {
		content, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", f.path, err)
		}
		data = content
	}

	return DecodeProducts(data)
}

// Close реализация SeedSourcePort
func (f *JSONFile) Close() error {
	return nil
}

// DecodeProducts разбирает массив исходных записей
func DecodeProducts(data []byte) ([]models.RawProduct, error) {
	var raw []models.RawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return raw, nil
}
