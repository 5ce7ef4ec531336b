package trading

import (
	"context"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

// Repository is the trade record store plus the participant ledger.
// Satisfied by repositories.TradeRepository.
type Repository interface {
	Create(ctx context.Context, entries []*models.TradeCard) (int64, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Trade, error)
	ListPage(ctx context.Context, offset, limit int) ([]*models.Trade, error)
	SearchByCardName(ctx context.Context, name string, offset, limit int) ([]*models.Trade, error)
	ListAvailable(ctx context.Context, userID int64, ownedIDs []int64, receiverSideOnly bool) ([]*models.Trade, error)
	ListByParticipant(ctx context.Context, userID int64, isSender bool) ([]*models.Trade, error)
	AddParticipant(ctx context.Context, tradeID, userID int64) error
}

// OwnershipLedger is the read-only view of who holds which cards.
type OwnershipLedger interface {
	OwnedCardIDs(ctx context.Context, userID int64) ([]int64, error)
}

// CardCatalog resolves card ids to catalog entries for projection.
type CardCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error)
}

// UserDirectory resolves participant user ids to users for projection.
type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
}
