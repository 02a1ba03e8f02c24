package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/athebyme/catalog-manager/internal/adapters/cache"
	"github.com/athebyme/catalog-manager/internal/adapters/logger"
	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/internal/domain/session"
	"github.com/athebyme/catalog-manager/internal/domain/store"
	"github.com/athebyme/catalog-manager/internal/domain/validator"
	"github.com/athebyme/catalog-manager/internal/domain/view"
)

type countingRecorder struct {
	derived int
	cached  int
	ops     map[string]int
}

func (r *countingRecorder) ViewDerived(cached bool) {
	if cached {
		r.cached++
		return
	}
	r.derived++
}

func (r *countingRecorder) CacheOperation(operation, status string) {
	if r.ops == nil {
		r.ops = map[string]int{}
	}
	r.ops[operation+":"+status]++
}

func newService(t *testing.T) (*CatalogService, *countingRecorder, *observer.ObservedLogs) {
	t.Helper()
	st := store.New([]models.Product{
		{ProductID: "102", Item: "DELUXE COOKED HAM", Price: "$5.15", CatID: "1", UOM: "LB"},
		{ProductID: "200", Item: "TURKEY BREAST", Price: "$3.50", CatID: "2", UOM: "LB"},
	}, nil)
	sess := session.New(st, validator.New(), nil, session.Options{PageSize: 25})
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &countingRecorder{}

	svc := NewCatalogService(st, sess, cache.NewMemoryCache(time.Minute, time.Minute), 0, rec, logger.NewFromZap(zap.New(core)))
	return svc, rec, logs
}

func TestView_MemoisedByRevision(t *testing.T) {
	svc, rec, _ := newService(t)
	ctx := context.Background()
	params := models.DefaultViewParams(10)

	first, err := svc.View(ctx, params)
	require.NoError(t, err)
	second, err := svc.View(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, rec.derived)
	assert.Equal(t, 1, rec.cached)
	assert.Equal(t, 1, rec.ops["get:hit"])

	_, err = svc.Dispatch(ctx, session.RequestCreate{})
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, session.SubmitForm{Mode: models.FormCreate, Fields: models.FormFields{
		Item: "ROAST BEEF", Price: "7.99", CatID: "3", UOM: "LB",
	}})
	require.NoError(t, err)

	third, err := svc.View(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 3, third.Total, "a mutation must never serve a stale view")
	assert.Equal(t, 2, rec.derived)
}

func TestView_DoesNotTouchSessionParams(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	result, err := svc.View(ctx, models.ViewParams{SearchText: "turkey", PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Filtered)

	state := svc.State(ctx)
	assert.Empty(t, state.View.Params.SearchText)
	assert.Equal(t, 2, state.View.Filtered)
}

func TestDispatch_LogsRejectedIntent(t *testing.T) {
	svc, _, logs := newService(t)

	_, err := svc.Dispatch(context.Background(), session.RequestEdit{ProductID: "999"})

	require.ErrorIs(t, err, session.ErrProductNotFound)
	entries := logs.FilterMessage("Намерение отклонено").All()
	require.Len(t, entries, 1)
	assert.Equal(t, session.IntentRequestEdit, entries[0].ContextMap()["intent"])
}

func TestGetProduct(t *testing.T) {
	svc, _, _ := newService(t)

	product, err := svc.GetProduct(context.Background(), "200")
	require.NoError(t, err)
	assert.Equal(t, "TURKEY BREAST", product.Item)

	_, err = svc.GetProduct(context.Background(), "404")
	assert.ErrorIs(t, err, session.ErrProductNotFound)
}

func TestView_SharedCacheAcrossInstances(t *testing.T) {
	ctx := context.Background()
	shared := cache.NewMemoryCache(time.Minute, time.Minute)
	seed := []models.Product{{ProductID: "102", Item: "HAM", Price: "$5.15", CatID: "1", UOM: "LB"}}

	newInstance := func() *CatalogService {
		st := store.New(seed, nil)
		sess := session.New(st, validator.New(), nil, session.Options{PageSize: 25})
		return NewCatalogService(st, sess, shared, time.Minute, nil, logger.NewFromZap(zap.NewNop()))
	}
	items := func(r view.Result) []string {
		names := make([]string, 0, len(r.Items))
		for _, p := range r.Items {
			names = append(names, p.Item)
		}
		return names
	}

	first := newInstance()
	_, err := first.Dispatch(ctx, session.RequestCreate{})
	require.NoError(t, err)
	_, err = first.Dispatch(ctx, session.SubmitForm{Mode: models.FormCreate, Fields: models.FormFields{
		Item: "ROAST BEEF", Price: "7.99", CatID: "3", UOM: "LB",
	}})
	require.NoError(t, err)
	firstView, err := first.View(ctx, models.DefaultViewParams(10))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"HAM", "ROAST BEEF"}, items(firstView))

	// та же ревизия в другом экземпляре означает другое содержимое
	second := newInstance()
	_, err = second.Dispatch(ctx, session.RequestCreate{})
	require.NoError(t, err)
	_, err = second.Dispatch(ctx, session.SubmitForm{Mode: models.FormCreate, Fields: models.FormFields{
		Item: "TURKEY BREAST", Price: "3.5", CatID: "2", UOM: "LB",
	}})
	require.NoError(t, err)
	secondView, err := second.View(ctx, models.DefaultViewParams(10))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"HAM", "TURKEY BREAST"}, items(secondView))
}
