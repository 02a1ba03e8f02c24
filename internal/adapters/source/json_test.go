package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/catalog-manager/internal/domain/ingest"
	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

var _ interfaces.SeedSourcePort = (*JSONFile)(nil)

func TestJSONFile_EmbeddedDefault(t *testing.T) {
	raw, err := NewJSONFile("").LoadRawProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 10)

	var duplicates []string
	products := ingest.Ingest(raw, ingest.SinkFunc(func(id, _ string) { duplicates = append(duplicates, id) }))

	assert.Len(t, products, 9)
	assert.Equal(t, []string{"102"}, duplicates)
	assert.Equal(t, " $5.15 ", products[0].Price)
}

func TestJSONFile_ReadsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"productId": 7, "item": "PASTRAMI", "price": 8.5, "catId": 3, "uom": "LB", "plu_upc": null}]`), 0o600))

	raw, err := NewJSONFile(path).LoadRawProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 1)

	p := raw[0].ToProduct()
	assert.Equal(t, "7", p.ProductID)
	assert.Equal(t, "8.5", p.Price)
	assert.Equal(t, "3", p.CatID)
	assert.Empty(t, p.PluUpc)
}

func TestJSONFile_Errors(t *testing.T) {
	_, err := NewJSONFile(filepath.Join(t.TempDir(), "missing.json")).LoadRawProducts(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o600))
	_, err = NewJSONFile(path).LoadRawProducts(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewJSONFile("").LoadRawProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
