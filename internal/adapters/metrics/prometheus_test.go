package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/internal/domain/validator"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.HandleChange(models.ChangeEvent{Type: models.ChangeCreate})
	m.HandleChange(models.ChangeEvent{Type: models.ChangeCreate})
	m.HandleChange(models.ChangeEvent{Type: models.ChangeDelete})
	m.DuplicateDiscarded("102", "HAM")
	m.ValidationFailed(validator.ValidationErrors{"price": validator.MsgPriceInvalid, "uom": validator.MsgUOMRequired})
	m.ViewDerived(true)
	m.ViewDerived(false)
	m.ViewDerived(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.duplicates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("price")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.viewDerivations.WithLabelValues("cache")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.viewDerivations.WithLabelValues("derived")))
}

func TestMetrics_HTTP(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RequestStarted()
	m.RequestStarted()
	m.RequestFinished()
	m.ObserveHTTP("/api/v1/catalog", "GET", 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsCounter.WithLabelValues("/api/v1/catalog", "GET", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDurations))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
