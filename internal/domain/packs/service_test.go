package packs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
)

// scriptedRNG replays a fixed sequence of rolls.
type scriptedRNG struct {
	floats []float64
	ints   []int
}

func (r *scriptedRNG) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRNG) Intn(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

type fakePackStore struct {
	packs      map[int64]*models.Pack
	fulfillErr error

	fulfilledUser  int64
	fulfilledPrice int64
	fulfilledCards []int64
}

func (f *fakePackStore) GetByID(ctx context.Context, id int64) (*models.Pack, error) {
	pack, ok := f.packs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return pack, nil
}

func (f *fakePackStore) GetAll(ctx context.Context) ([]*models.Pack, error) {
	all := make([]*models.Pack, 0, len(f.packs))
	for _, pack := range f.packs {
		all = append(all, pack)
	}
	return all, nil
}

func (f *fakePackStore) Fulfill(ctx context.Context, userID int64, price int64, cardIDs []int64) error {
	if f.fulfillErr != nil {
		return f.fulfillErr
	}
	f.fulfilledUser = userID
	f.fulfilledPrice = price
	f.fulfilledCards = cardIDs
	return nil
}

type fakeCardSource struct {
	byRarity map[models.Rarity][]int64
}

func (f *fakeCardSource) IDsByRarity(ctx context.Context, rarity models.Rarity) ([]int64, error) {
	return f.byRarity[rarity], nil
}

func (f *fakeCardSource) GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error) {
	cards := make([]*models.Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, &models.Card{ID: id})
	}
	return cards, nil
}

func testPack() *models.Pack {
	return &models.Pack{
		ID:            1,
		Name:          "Pacote simples",
		Price:         100,
		CardsQuantity: 2,
		CommonRarity:  0.5, RareRarity: 0.3, EpicRarity: 0.15,
		LegendaryRarity: 0.05, FullLegendaryRarity: 0.01,
	}
}

func TestRollRarity(t *testing.T) {
	pack := testPack()
	// Total weight is 1.01, cumulative cutoffs scale with it.
	tests := []struct {
		name string
		roll float64
		want models.Rarity
	}{
		{name: "LowRollIsCommon", roll: 0.0, want: models.RarityCommon},
		{name: "MidRollIsRare", roll: 0.6, want: models.RarityRare},
		{name: "HighRollIsLegendary", roll: 0.95, want: models.RarityLegendary},
		{name: "TopRollIsFullLegendary", roll: 0.999, want: models.RarityFullLegendary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rollRarity(pack, tt.roll))
		})
	}
}

func TestRollRarity_ZeroWeights(t *testing.T) {
	pack := &models.Pack{}
	assert.Equal(t, models.RarityCommon, rollRarity(pack, 0.5))
}

func TestService_Open(t *testing.T) {
	store := &fakePackStore{packs: map[int64]*models.Pack{1: testPack()}}
	cards := &fakeCardSource{byRarity: map[models.Rarity][]int64{
		models.RarityCommon: {10, 11, 12},
		models.RarityRare:   {20},
	}}
	rng := &scriptedRNG{
		floats: []float64{0.1, 0.6}, // common, rare
		ints:   []int{1, 0},
	}

	s := NewService(store, cards, rng)
	got, err := s.Open(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(7), store.fulfilledUser)
	assert.Equal(t, int64(100), store.fulfilledPrice)
	assert.Equal(t, []int64{11, 20}, store.fulfilledCards)
}

func TestService_Open_RarityFallback(t *testing.T) {
	pack := testPack()
	pack.CardsQuantity = 1
	store := &fakePackStore{packs: map[int64]*models.Pack{1: pack}}
	// No legendary cards exist, the roll degrades through epic and rare
	// down to common.
	cards := &fakeCardSource{byRarity: map[models.Rarity][]int64{
		models.RarityCommon: {10},
	}}
	rng := &scriptedRNG{floats: []float64{0.95}, ints: []int{0}}

	s := NewService(store, cards, rng)
	got, err := s.Open(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
}

func TestService_Open_Errors(t *testing.T) {
	cards := &fakeCardSource{byRarity: map[models.Rarity][]int64{
		models.RarityCommon: {10},
	}}

	t.Run("PackNotFound", func(t *testing.T) {
		s := NewService(&fakePackStore{packs: map[int64]*models.Pack{}}, cards, &scriptedRNG{})
		_, err := s.Open(context.Background(), 7, 99)
		assert.ErrorIs(t, err, ErrPackNotFound)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		store := &fakePackStore{
			packs:      map[int64]*models.Pack{1: testPack()},
			fulfillErr: repositories.ErrInsufficientFunds,
		}
		rng := &scriptedRNG{floats: []float64{0.1, 0.1}, ints: []int{0, 0}}
		s := NewService(store, cards, rng)
		_, err := s.Open(context.Background(), 7, 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("EmptyCatalog", func(t *testing.T) {
		store := &fakePackStore{packs: map[int64]*models.Pack{1: testPack()}}
		rng := &scriptedRNG{floats: []float64{0.1}, ints: []int{0}}
		s := NewService(store, &fakeCardSource{byRarity: map[models.Rarity][]int64{}}, rng)
		_, err := s.Open(context.Background(), 7, 1)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})
}

func TestService_ListPacks(t *testing.T) {
	store := &fakePackStore{packs: map[int64]*models.Pack{1: testPack()}}
	s := NewService(store, &fakeCardSource{}, &scriptedRNG{})

	got, err := s.ListPacks(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
