package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

const cardCacheSize = 10000

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error)
	List(ctx context.Context, offset, limit int) ([]*models.Card, error)
	GetAll(ctx context.Context) ([]*models.Card, error)
	IDsByRarity(ctx context.Context, rarity models.Rarity) ([]int64, error)
	Count(ctx context.Context) (int64, error)
}

type cardRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewCardRepository(db *bun.DB) CardRepository {
	cache, _ := lru.New(cardCacheSize)
	return &cardRepository{db: db, cache: cache}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(card).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	if cached, ok := r.cache.Get(id); ok {
		return cached.(*models.Card), nil
	}

	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	r.cache.Add(id, card)
	return card, nil
}

// GetByIDs resolves cards from the LRU cache first and hits the store only
// for the misses. The catalog is immutable so cached entries never go stale.
func (r *cardRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error) {
	cards := make([]*models.Card, 0, len(ids))
	missing := make([]int64, 0)
	seen := make(map[int64]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if cached, ok := r.cache.Get(id); ok {
			cards = append(cards, cached.(*models.Card))
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		var fetched []*models.Card
		err := r.db.NewSelect().
			Model(&fetched).
			Where("id IN (?)", bun.In(missing)).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get cards: %w", err)
		}
		for _, card := range fetched {
			r.cache.Add(card.ID, card)
		}
		cards = append(cards, fetched...)
	}

	return cards, nil
}

func (r *cardRepository) List(ctx context.Context, offset, limit int) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) GetAll(ctx context.Context) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) IDsByRarity(ctx context.Context, rarity models.Rarity) ([]int64, error) {
	var ids []int64
	err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		Column("id").
		Where("rarity = ?", rarity).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get card ids by rarity: %w", err)
	}
	return ids, nil
}

func (r *cardRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return int64(count), nil
}
