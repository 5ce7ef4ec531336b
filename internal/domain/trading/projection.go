package trading

import "github.com/cardbazar/cardbazar/marketplace/database/models"

// Flatten maps trades with loaded membership rows to the flat summary
// shape, denormalizing card and user details from the given lookup maps.
// Entries whose lookup is missing are dropped rather than emitted half
// empty. Pure, so it stays testable without a store.
func Flatten(trades []*models.Trade, cardsByID map[int64]*models.Card, usersByID map[int64]*models.User) []TradeSummary {
	summaries := make([]TradeSummary, 0, len(trades))
	for _, trade := range trades {
		summary := TradeSummary{
			ID:    trade.ID,
			Cards: make([]CardLine, 0, len(trade.Cards)),
			Users: make([]UserLine, 0, len(trade.Participants)),
		}
		for _, entry := range trade.Cards {
			card, ok := cardsByID[entry.CardID]
			if !ok {
				continue
			}
			summary.Cards = append(summary.Cards, CardLine{
				IsSender: entry.IsSender,
				Name:     card.Name,
				CardID:   card.ID,
				ImageURL: card.ImageURL,
			})
		}
		for _, participant := range trade.Participants {
			user, ok := usersByID[participant.UserID]
			if !ok {
				continue
			}
			summary.Users = append(summary.Users, UserLine{
				UserID:   user.ID,
				Username: user.Username,
			})
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func collectIDs(trades []*models.Trade) (cardIDs, userIDs []int64) {
	seenCards := make(map[int64]struct{})
	seenUsers := make(map[int64]struct{})
	for _, trade := range trades {
		for _, entry := range trade.Cards {
			if _, ok := seenCards[entry.CardID]; !ok {
				seenCards[entry.CardID] = struct{}{}
				cardIDs = append(cardIDs, entry.CardID)
			}
		}
		for _, participant := range trade.Participants {
			if _, ok := seenUsers[participant.UserID]; !ok {
				seenUsers[participant.UserID] = struct{}{}
				userIDs = append(userIDs, participant.UserID)
			}
		}
	}
	return cardIDs, userIDs
}

func indexCards(cards []*models.Card) map[int64]*models.Card {
	byID := make(map[int64]*models.Card, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}
	return byID
}

func indexUsers(users []*models.User) map[int64]*models.User {
	byID := make(map[int64]*models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return byID
}
