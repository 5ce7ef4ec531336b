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

type TradeRepository interface {
	Create(ctx context.Context, entries []*models.TradeCard) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Trade, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Trade, error)
	ListPage(ctx context.Context, offset, limit int) ([]*models.Trade, error)
	SearchByCardName(ctx context.Context, name string, offset, limit int) ([]*models.Trade, error)
	ListAvailable(ctx context.Context, userID int64, ownedIDs []int64, receiverSideOnly bool) ([]*models.Trade, error)
	ListByParticipant(ctx context.Context, userID int64, isSender bool) ([]*models.Trade, error)
	AddParticipant(ctx context.Context, tradeID, userID int64) error
	Settle(ctx context.Context, tradeID int64) error
}

type tradeRepository struct {
	db *bun.DB
}

func NewTradeRepository(db *bun.DB) TradeRepository {
	return &tradeRepository{db: db}
}

// Create persists the trade row and its card membership in one transaction.
// A reader can never observe the trade with a subset of its cards.
func (r *tradeRepository) Create(ctx context.Context, entries []*models.TradeCard) (int64, error) {
	trade := &models.Trade{
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := database.RunInTx(ctx, r.db, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(trade).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("failed to create trade: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		for _, entry := range entries {
			entry.TradeID = trade.ID
		}
		if _, err := tx.NewInsert().Model(&entries).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create trade cards: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return trade.ID, nil
}

func (r *tradeRepository) GetByID(ctx context.Context, id int64) (*models.Trade, error) {
	trade := new(models.Trade)
	err := r.db.NewSelect().
		Model(trade).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

func (r *tradeRepository) GetWithRelations(ctx context.Context, id int64) (*models.Trade, error) {
	trade := new(models.Trade)
	err := r.db.NewSelect().
		Model(trade).
		Relation("Cards").
		Relation("Participants").
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trade with relations: %w", err)
	}
	return trade, nil
}

func (r *tradeRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Relation("Cards").
		Relation("Participants").
		Order("t.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

func (r *tradeRepository) SearchByCardName(ctx context.Context, name string, offset, limit int) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Distinct().
		Join("JOIN trade_cards AS tc ON tc.trade_id = t.id").
		Join("JOIN cards AS c ON c.id = tc.card_id").
		Where("c.name LIKE ?", "%"+name+"%").
		Order("t.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search trades: %w", err)
	}
	return trades, nil
}

// ListAvailable returns trades whose relevant card membership is a subset of
// ownedIDs and which userID has not joined. With receiverSideOnly the subset
// check covers only the cards requested from the accepter. A trade with no
// relevant card rows matches any owner set.
func (r *tradeRepository) ListAvailable(ctx context.Context, userID int64, ownedIDs []int64, receiverSideOnly bool) ([]*models.Trade, error) {
	sideCond := ""
	if receiverSideOnly {
		sideCond = " AND tc.is_sender = FALSE"
	}

	var trades []*models.Trade
	q := r.db.NewSelect().
		Model(&trades).
		Where("NOT EXISTS (SELECT 1 FROM user_trades ut WHERE ut.trade_id = t.id AND ut.user_id = ?)", userID)

	if len(ownedIDs) == 0 {
		q = q.Where("NOT EXISTS (SELECT 1 FROM trade_cards tc WHERE tc.trade_id = t.id" + sideCond + ")")
	} else {
		q = q.Where(
			"NOT EXISTS (SELECT 1 FROM trade_cards tc WHERE tc.trade_id = t.id"+sideCond+" AND tc.card_id NOT IN (?))",
			bun.In(ownedIDs),
		)
	}

	err := q.Order("t.id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available trades: %w", err)
	}
	return trades, nil
}

func (r *tradeRepository) ListByParticipant(ctx context.Context, userID int64, isSender bool) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Join("JOIN user_trades AS ut ON ut.trade_id = t.id").
		Where("ut.user_id = ? AND ut.is_sender = ?", userID, isSender).
		Order("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades by participant: %w", err)
	}
	return trades, nil
}

// AddParticipant appends the accepter's participant row. The check and the
// insert run in one transaction, and the unique index on
// (trade_id, user_id) breaks ties between concurrent accepts: exactly one
// commits, the rest surface ErrDuplicate.
func (r *tradeRepository) AddParticipant(ctx context.Context, tradeID, userID int64) error {
	return database.RunInTx(ctx, r.db, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Trade)(nil)).
			Where("id = ?", tradeID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check trade: %w", err)
		}
		if !exists {
			return ErrNotFound
		}

		joined, err := tx.NewSelect().
			Model((*models.UserTrade)(nil)).
			Where("trade_id = ? AND user_id = ?", tradeID, userID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check participant: %w", err)
		}
		if joined {
			return ErrDuplicate
		}

		_, err = tx.NewInsert().
			Model(&models.UserTrade{
				TradeID:   tradeID,
				UserID:    userID,
				IsSender:  false,
				CreatedAt: time.Now(),
			}).
			Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to add participant: %w", err)
		}
		return nil
	})
}

// Settle transfers card ownership between the two participants of an
// accepted trade. It is an extension point: acceptance does not call it.
// Runs serializable so concurrent settlements or pack openings cannot
// leave either side with negative amounts.
func (r *tradeRepository) Settle(ctx context.Context, tradeID int64) error {
	return database.RunInTx(ctx, r.db, database.SerializableTxOptions(), func(ctx context.Context, tx bun.Tx) error {
		trade := new(models.Trade)
		err := tx.NewSelect().
			Model(trade).
			Relation("Cards").
			Relation("Participants").
			Where("t.id = ?", tradeID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get trade: %w", err)
		}

		var sender, accepter *models.UserTrade
		for _, p := range trade.Participants {
			if p.IsSender {
				sender = p
			} else {
				accepter = p
			}
		}
		if sender == nil || accepter == nil {
			return fmt.Errorf("trade %d is not ready to settle", tradeID)
		}

		for _, entry := range trade.Cards {
			from, to := sender.UserID, accepter.UserID
			if !entry.IsSender {
				from, to = accepter.UserID, sender.UserID
			}

			result, err := tx.NewUpdate().
				Model((*models.UserCard)(nil)).
				Set("amount = amount - 1").
				Set("updated_at = ?", time.Now()).
				Where("user_id = ? AND card_id = ? AND amount > 0", from, entry.CardID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to remove card %d from user %d: %w", entry.CardID, from, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if affected == 0 {
				return fmt.Errorf("user %d no longer owns card %d", from, entry.CardID)
			}

			result, err = tx.NewUpdate().
				Model((*models.UserCard)(nil)).
				Set("amount = amount + 1").
				Set("updated_at = ?", time.Now()).
				Where("user_id = ? AND card_id = ?", to, entry.CardID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to give card %d to user %d: %w", entry.CardID, to, err)
			}
			affected, err = result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if affected == 0 {
				_, err = tx.NewInsert().
					Model(&models.UserCard{
						UserID:    to,
						CardID:    entry.CardID,
						Amount:    1,
						Obtained:  time.Now(),
						CreatedAt: time.Now(),
						UpdatedAt: time.Now(),
					}).
					Exec(ctx)
				if err != nil {
					return fmt.Errorf("failed to create card entry for user %d: %w", to, err)
				}
			}
		}

		return nil
	})
}
