package packs

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
)

var (
	ErrPackNotFound      = errors.New("pack not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEmptyCatalog      = errors.New("no cards available to roll")
)

// RNG is the randomness source for rarity rolls. *math/rand.Rand
// satisfies it; tests inject a scripted sequence.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

type PackStore interface {
	GetByID(ctx context.Context, id int64) (*models.Pack, error)
	GetAll(ctx context.Context) ([]*models.Pack, error)
	Fulfill(ctx context.Context, userID int64, price int64, cardIDs []int64) error
}

type CardSource interface {
	IDsByRarity(ctx context.Context, rarity models.Rarity) ([]int64, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error)
}

type Service interface {
	ListPacks(ctx context.Context) ([]*models.Pack, error)
	Open(ctx context.Context, userID, packID int64) ([]*models.Card, error)
}

type service struct {
	packs PackStore
	cards CardSource
	rng   RNG
}

func NewService(packs PackStore, cards CardSource, rng RNG) Service {
	return &service{packs: packs, cards: cards, rng: rng}
}

func (s *service) ListPacks(ctx context.Context) ([]*models.Pack, error) {
	return s.packs.GetAll(ctx)
}

// Open charges the pack price and rolls cards_quantity cards by the pack's
// rarity weights. The charge and the ledger credits commit in one
// transaction; the rolls themselves are pure and happen before it.
func (s *service) Open(ctx context.Context, userID, packID int64) ([]*models.Card, error) {
	pack, err := s.packs.GetByID(ctx, packID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPackNotFound
		}
		return nil, err
	}

	cardIDs := make([]int64, 0, pack.CardsQuantity)
	for i := 0; i < pack.CardsQuantity; i++ {
		rarity := rollRarity(pack, s.rng.Float64())
		id, err := s.pickCard(ctx, rarity)
		if err != nil {
			return nil, err
		}
		cardIDs = append(cardIDs, id)
	}

	if err := s.packs.Fulfill(ctx, userID, pack.Price, cardIDs); err != nil {
		if errors.Is(err, repositories.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	cards, err := s.cards.GetByIDs(ctx, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load rolled cards: %w", err)
	}
	return cards, nil
}

// rarityOrder is the fallback chain: when no card of the rolled rarity
// exists, the roll degrades toward common.
var rarityOrder = []models.Rarity{
	models.RarityFullLegendary,
	models.RarityLegendary,
	models.RarityEpic,
	models.RarityRare,
	models.RarityCommon,
}

// rollRarity maps a uniform roll in [0,1) onto the pack's rarity weights.
// Weights do not have to sum to one; the roll is scaled to their total.
func rollRarity(pack *models.Pack, roll float64) models.Rarity {
	weights := []struct {
		rarity models.Rarity
		weight float64
	}{
		{models.RarityCommon, pack.CommonRarity},
		{models.RarityRare, pack.RareRarity},
		{models.RarityEpic, pack.EpicRarity},
		{models.RarityLegendary, pack.LegendaryRarity},
		{models.RarityFullLegendary, pack.FullLegendaryRarity},
	}

	var total float64
	for _, w := range weights {
		total += w.weight
	}
	if total <= 0 {
		return models.RarityCommon
	}

	target := roll * total
	var cumulative float64
	for _, w := range weights {
		cumulative += w.weight
		if target < cumulative {
			return w.rarity
		}
	}
	return models.RarityCommon
}

func (s *service) pickCard(ctx context.Context, rarity models.Rarity) (int64, error) {
	start := 0
	for i, r := range rarityOrder {
		if r == rarity {
			start = i
			break
		}
	}

	for _, r := range rarityOrder[start:] {
		ids, err := s.cards.IDsByRarity(ctx, r)
		if err != nil {
			return 0, err
		}
		if len(ids) > 0 {
			return ids[s.rng.Intn(len(ids))], nil
		}
	}
	return 0, ErrEmptyCatalog
}
