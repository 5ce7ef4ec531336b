package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

func TestFlatten_DropsMissingLookups(t *testing.T) {
	trades := []*models.Trade{
		{
			ID: 1,
			Cards: []*models.TradeCard{
				{CardID: 10, IsSender: true},
				{CardID: 11, IsSender: false},
			},
			Participants: []*models.UserTrade{
				{UserID: 7},
				{UserID: 8},
			},
		},
	}
	cards := map[int64]*models.Card{
		10: {ID: 10, Name: "Alpha"},
	}
	users := map[int64]*models.User{
		7: {ID: 7, Username: "ana"},
	}

	summaries := Flatten(trades, cards, users)
	require.Len(t, summaries, 1)
	assert.Len(t, summaries[0].Cards, 1, "card without catalog entry is dropped")
	assert.Len(t, summaries[0].Users, 1, "participant without user row is dropped")
	assert.Equal(t, int64(10), summaries[0].Cards[0].CardID)
}

func TestFlatten_EmptyTrade(t *testing.T) {
	summaries := Flatten([]*models.Trade{{ID: 3}}, nil, nil)
	require.Len(t, summaries, 1)
	assert.Empty(t, summaries[0].Cards)
	assert.Empty(t, summaries[0].Users)
}

func TestCollectIDs_Dedupes(t *testing.T) {
	trades := []*models.Trade{
		{
			Cards: []*models.TradeCard{
				{CardID: 1}, {CardID: 2}, {CardID: 1},
			},
			Participants: []*models.UserTrade{
				{UserID: 7},
			},
		},
		{
			Cards: []*models.TradeCard{
				{CardID: 2},
			},
			Participants: []*models.UserTrade{
				{UserID: 7}, {UserID: 8},
			},
		},
	}

	cardIDs, userIDs := collectIDs(trades)
	assert.ElementsMatch(t, []int64{1, 2}, cardIDs)
	assert.ElementsMatch(t, []int64{7, 8}, userIDs)
}
