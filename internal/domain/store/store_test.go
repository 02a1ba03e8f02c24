package store

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/catalog-manager/internal/domain/models"
)

// fixedIDs выдает заранее заданные идентификаторы по очереди
type fixedIDs struct {
	ids []string
	pos int
}

func (f *fixedIDs) NewID() string {
	if f.pos >= len(f.ids) {
		return ""
	}
	id := f.ids[f.pos]
	f.pos++
	return id
}

func seed() []models.Product {
	return []models.Product{
		{ProductID: "102", Item: "DELUXE COOKED HAM", Price: "$5.15", CatID: "1", UOM: "LB"},
		{ProductID: "159", Item: "LOW-SODIUM HAM", Price: "$5.15", CatID: "1", UOM: "LB"},
		{ProductID: "200", Item: "TURKEY BREAST", Price: "$3.50", CatID: "2", UOM: "LB"},
	}
}

func assertUnique(t *testing.T, s *Store) {
	t.Helper()
	seen := map[string]bool{}
	for _, p := range s.List() {
		require.False(t, seen[p.ProductID], "duplicate productId %s", p.ProductID)
		seen[p.ProductID] = true
	}
}

func TestCreate_MintsFreshIDIgnoringCandidate(t *testing.T) {
	s := New(seed(), &fixedIDs{ids: []string{"900"}})

	created := s.Create(models.Product{ProductID: "102", Item: "NEW"})

	assert.Equal(t, "900", created.ProductID)
	assert.Equal(t, 4, s.Len())
	got, ok := s.Get("102")
	require.True(t, ok)
	assert.Equal(t, "DELUXE COOKED HAM", got.Item, "existing record must not be overwritten")
}

func TestCreate_SkipsCollidingAndEmptyIDs(t *testing.T) {
	s := New(seed(), &fixedIDs{ids: []string{"102", "", "159", "901"}})

	created := s.Create(models.Product{Item: "NEW"})

	assert.Equal(t, "901", created.ProductID)
	assertUnique(t, s)
}

func TestCreate_FallsBackWhenGeneratorExhausted(t *testing.T) {
	s := New(seed(), &fixedIDs{})

	created := s.Create(models.Product{Item: "NEW"})

	assert.NotEmpty(t, created.ProductID)
	assertUnique(t, s)
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	s := New(seed(), nil)

	ok := s.Update(models.Product{ProductID: "159", Item: "RENAMED", Price: "$6.00", CatID: "1", UOM: "LB"})

	require.True(t, ok)
	list := s.List()
	assert.Equal(t, "159", list[1].ProductID)
	assert.Equal(t, "RENAMED", list[1].Item)
}

func TestUpdate_MissingIDIsNoop(t *testing.T) {
	s := New(seed(), nil)
	var notified int
	s.SetObserver(ObserverFunc(func(models.ChangeEvent) { notified++ }))
	before := s.List()

	ok := s.Update(models.Product{ProductID: "nope", Item: "X"})

	assert.False(t, ok)
	assert.Equal(t, before, s.List())
	assert.Zero(t, notified)
	assert.Zero(t, s.Revision())
}

func TestDelete_RemovesAndReindexes(t *testing.T) {
	s := New(seed(), nil)

	require.True(t, s.Delete("102"))

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("102")
	assert.False(t, ok)
	got, ok := s.Get("200")
	require.True(t, ok)
	assert.Equal(t, "TURKEY BREAST", got.Item)
	require.True(t, s.Update(models.Product{ProductID: "200", Item: "SMOKED TURKEY"}))
	assert.Equal(t, "SMOKED TURKEY", s.List()[1].Item)
}

func TestDelete_MissingIDIsNoop(t *testing.T) {
	s := New(seed(), nil)
	before := s.List()

	assert.False(t, s.Delete("missing"))
	assert.Equal(t, before, s.List())
}

func TestList_ReturnsCopy(t *testing.T) {
	s := New(seed(), nil)

	list := s.List()
	list[0].Item = "MUTATED"
	list[2] = models.Product{ProductID: "x"}

	assert.Equal(t, "DELUXE COOKED HAM", s.List()[0].Item)
	assert.Equal(t, 3, s.Len())
}

func TestNew_DropsDuplicateSeedKeys(t *testing.T) {
	s := New(append(seed(), models.Product{ProductID: "102", Item: "DUP"}), nil)

	assert.Equal(t, 3, s.Len())
	got, _ := s.Get("102")
	assert.Equal(t, "DELUXE COOKED HAM", got.Item)
}

func TestObserver_NotifiedSynchronouslyWithPostState(t *testing.T) {
	s := New(seed(), &fixedIDs{ids: []string{"500"}})
	var events []models.ChangeEvent
	var lens []int
	s.SetObserver(ObserverFunc(func(e models.ChangeEvent) {
		events = append(events, e)
		lens = append(lens, len(s.List()))
	}))

	s.Create(models.Product{Item: "A"})
	s.Update(models.Product{ProductID: "500", Item: "B"})
	s.Delete("500")

	require.Len(t, events, 3)
	assert.Equal(t, []int{4, 4, 3}, lens)

	assert.Equal(t, models.ChangeCreate, events[0].Type)
	assert.Nil(t, events[0].Before)
	assert.Equal(t, "A", events[0].After.Item)

	assert.Equal(t, models.ChangeUpdate, events[1].Type)
	assert.Equal(t, "A", events[1].Before.Item)
	assert.Equal(t, "B", events[1].After.Item)

	assert.Equal(t, models.ChangeDelete, events[2].Type)
	assert.Equal(t, "500", events[2].ProductID)
	assert.Nil(t, events[2].After)

	assert.Equal(t, []uint64{1, 2, 3}, []uint64{events[0].Revision, events[1].Revision, events[2].Revision})
	assert.Equal(t, uint64(3), s.Revision())
}

func TestUniquenessAcrossMixedOperations(t *testing.T) {
	s := New(seed(), NewSequenceGenerator())

	for i := 0; i < 50; i++ {
		p := s.Create(models.Product{Item: "item" + strconv.Itoa(i)})
		if i%3 == 0 {
			s.Delete(p.ProductID)
		}
		if i%5 == 0 {
			s.Update(models.Product{ProductID: p.ProductID, Item: "upd"})
		}
	}

	assertUnique(t, s)
}

func TestSequenceGenerator_Monotonic(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	g := &SequenceGenerator{now: func() time.Time { return frozen }}

	assert.Equal(t, "1700000000000", g.NewID())
	assert.Equal(t, "1700000000001", g.NewID())
	assert.Equal(t, "1700000000002", g.NewID())
}

func TestNewIDGenerator(t *testing.T) {
	assert.IsType(t, UUIDGenerator{}, NewIDGenerator("uuid"))
	assert.IsType(t, &SequenceGenerator{}, NewIDGenerator("sequence"))
	assert.IsType(t, &SequenceGenerator{}, NewIDGenerator(""))
	assert.Len(t, UUIDGenerator{}.NewID(), 36)
}

func TestSnapshot_MatchesRevision(t *testing.T) {
	s := New(seed(), &fixedIDs{ids: []string{"900"}})

	items, rev := s.Snapshot()
	assert.Len(t, items, 3)
	assert.Equal(t, uint64(0), rev)

	s.Create(models.Product{Item: "NEW"})
	items, rev = s.Snapshot()
	assert.Len(t, items, 4)
	assert.Equal(t, uint64(1), rev)
}
