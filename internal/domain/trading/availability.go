package trading

import (
	"context"
	"fmt"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

// AvailabilityStrategy picks which card entries of a trade must be covered
// by the querying user's collection.
type AvailabilityStrategy int

const (
	// AvailabilityAllCards requires every card entry of the trade, both
	// sides, to be owned. This mirrors the historical behavior of the
	// marketplace and is the default.
	AvailabilityAllCards AvailabilityStrategy = iota
	// AvailabilityReceiverSide requires only the requested (non-sender)
	// cards to be owned, i.e. a true fulfillment check. Kept behind this
	// switch until product intent is confirmed.
	AvailabilityReceiverSide
)

// Resolve computes the open trades the user can currently fulfill: the
// strategy-relevant card membership must be a subset of the user's owned
// cards, and the user must not already be a participant. A trade with no
// card entries is vacuously available to every non-participant; that falls
// out of the subset rule on purpose.
func (s *service) Resolve(ctx context.Context, userID int64) ([]*models.Trade, error) {
	owned, err := s.ledger.OwnedCardIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owned cards: %w", err)
	}
	return s.trades.ListAvailable(ctx, userID, owned, s.strategy == AvailabilityReceiverSide)
}
