package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "catalog-manager", cfg.AppName)
	assert.Equal(t, "development", cfg.ENV)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "file", cfg.Source.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 25, cfg.Catalog.DefaultPageSize)
	assert.Equal(t, []int{10, 25, 50, 100}, cfg.Catalog.PageSizeOptions)
	assert.Equal(t, "item", cfg.Catalog.DefaultSortField)
	assert.Equal(t, "sequence", cfg.Catalog.IDStrategy)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CACHE_DRIVER", "none")
	t.Setenv("CATALOG_ID_STRATEGY", "uuid")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "none", cfg.Cache.Driver)
	assert.Equal(t, "uuid", cfg.Catalog.IDStrategy)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logLevel: debug
source:
  driver: postgres
catalog:
  defaultPageSize: 50
  defaultSortField: price
  defaultSortDirection: desc
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres", cfg.Source.Driver)
	assert.Equal(t, 50, cfg.Catalog.DefaultPageSize)
	assert.Equal(t, "price", cfg.Catalog.DefaultSortField)
	assert.Equal(t, "desc", cfg.Catalog.DefaultSortDirection)

	// Повторная загрузка не зависит от предыдущей
	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file", again.Source.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"source driver", map[string]string{"SOURCE_DRIVER": "s3"}},
		{"cache driver", map[string]string{"CACHE_DRIVER": "memcached"}},
		{"page size", map[string]string{"CATALOG_DEFAULT_PAGE_SIZE": "0"}},
		{"page size option", map[string]string{"CATALOG_DEFAULT_PAGE_SIZE": "7"}},
		{"sort direction", map[string]string{"CATALOG_DEFAULT_SORT_DIRECTION": "up"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
