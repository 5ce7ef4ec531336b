package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardbazar/cardbazar/marketplace/database"
	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

var (
	// ErrInsufficientFunds is returned when a pack purchase would take the
	// buyer's balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type PackRepository interface {
	Create(ctx context.Context, pack *models.Pack) error
	GetByID(ctx context.Context, id int64) (*models.Pack, error)
	GetAll(ctx context.Context) ([]*models.Pack, error)
	Fulfill(ctx context.Context, userID int64, price int64, cardIDs []int64) error
}

type packRepository struct {
	db        *bun.DB
	userCards UserCardRepository
}

func NewPackRepository(db *bun.DB, userCards UserCardRepository) PackRepository {
	return &packRepository{db: db, userCards: userCards}
}

func (r *packRepository) Create(ctx context.Context, pack *models.Pack) error {
	pack.CreatedAt = time.Now()
	pack.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(pack).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create pack: %w", err)
	}
	return nil
}

func (r *packRepository) GetByID(ctx context.Context, id int64) (*models.Pack, error) {
	pack := new(models.Pack)
	err := r.db.NewSelect().
		Model(pack).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pack: %w", err)
	}
	return pack, nil
}

func (r *packRepository) GetAll(ctx context.Context) ([]*models.Pack, error) {
	var packs []*models.Pack
	err := r.db.NewSelect().
		Model(&packs).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get packs: %w", err)
	}
	return packs, nil
}

// Fulfill charges the buyer and credits the rolled cards in one
// transaction. The balance guard is in the UPDATE itself, so two
// concurrent openings cannot overdraw.
func (r *packRepository) Fulfill(ctx context.Context, userID int64, price int64, cardIDs []int64) error {
	return database.RunInTx(ctx, r.db, database.SerializableTxOptions(), func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("balance = balance - ?", price).
			Set("updated_at = ?", time.Now()).
			Where("id = ? AND balance >= ?", userID, price).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to charge user: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return ErrInsufficientFunds
		}

		for _, cardID := range cardIDs {
			if err := r.userCards.AddCardTx(ctx, tx, userID, cardID); err != nil {
				return err
			}
		}
		return nil
	})
}
