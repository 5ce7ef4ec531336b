package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

type UserCardRepository interface {
	OwnedCardIDs(ctx context.Context, userID int64) ([]int64, error)
	GetAllByUserID(ctx context.Context, userID int64) ([]*models.UserCard, error)
	AddCardTx(ctx context.Context, tx bun.IDB, userID, cardID int64) error
}

type userCardRepository struct {
	db *bun.DB
}

func NewUserCardRepository(db *bun.DB) UserCardRepository {
	return &userCardRepository{db: db}
}

func (r *userCardRepository) OwnedCardIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.NewSelect().
		Model((*models.UserCard)(nil)).
		Column("card_id").
		Where("user_id = ? AND amount > 0", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get owned card ids: %w", err)
	}
	return ids, nil
}

func (r *userCardRepository) GetAllByUserID(ctx context.Context, userID int64) ([]*models.UserCard, error) {
	var userCards []*models.UserCard
	err := r.db.NewSelect().
		Model(&userCards).
		Relation("Card").
		Where("uc.user_id = ? AND uc.amount > 0", userID).
		Order("uc.obtained DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user cards: %w", err)
	}
	return userCards, nil
}

// AddCardTx increments the (user, card) amount inside the caller's
// transaction, creating the row on first acquisition.
func (r *userCardRepository) AddCardTx(ctx context.Context, tx bun.IDB, userID, cardID int64) error {
	result, err := tx.NewUpdate().
		Model((*models.UserCard)(nil)).
		Set("amount = amount + 1").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to increment user card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = tx.NewInsert().
		Model(&models.UserCard{
			UserID:    userID,
			CardID:    cardID,
			Amount:    1,
			Obtained:  time.Now(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user card: %w", err)
	}
	return nil
}
